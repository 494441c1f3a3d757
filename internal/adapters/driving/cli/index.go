package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driving"
)

var (
	indexSourceID      string
	indexExcludes      []string
	indexChunkSize     int
	indexOverlap       int
	indexStripComments bool
	indexWatch         bool

	indexGitHubRef   string
	indexGitHubToken string
	indexNotionToken string
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a local source tree",
	Long: `Walks a directory tree, cleans and chunks every source file and adds
the results to the knowledge base. Dependency and build directories
(node_modules, .git, dist, build, vendor) and binary files are skipped.

Use the github or notion subcommands to index remote sources.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

var indexGitHubCmd = &cobra.Command{
	Use:   "github [owner/repo]",
	Short: "Index a GitHub repository",
	Long: `Fetches a repository tree via the GitHub API and indexes every text
file. Private repositories need a token, either via --token or the
github.token config key.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexGitHub,
}

var indexNotionCmd = &cobra.Command{
	Use:   "notion [page-id]",
	Short: "Index a Notion page tree",
	Long: `Walks a Notion page and its children via the Notion API and indexes
their text content. The integration token is read from --token, the
notion.token config key, or prompted for.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndexNotion,
}

func init() {
	indexCmd.Flags().StringVar(&indexSourceID, "source", "", `source identity for document ids (default "local")`)
	indexCmd.Flags().StringSliceVar(&indexExcludes, "exclude", nil, "additional exclusion globs")
	indexCmd.Flags().IntVar(&indexChunkSize, "chunk-size", 2000, "characters per chunk")
	indexCmd.Flags().IntVar(&indexOverlap, "overlap", 200, "overlapping characters between chunks")
	indexCmd.Flags().BoolVar(&indexStripComments, "strip-comments", true, "strip comments before chunking")
	indexCmd.Flags().BoolVar(&indexWatch, "watch", false, "keep watching the tree and re-index changes")

	indexGitHubCmd.Flags().StringVar(&indexGitHubRef, "ref", "", "branch, tag or commit (default: repository default branch)")
	indexGitHubCmd.Flags().StringVar(&indexGitHubToken, "token", "", "GitHub token (default: github.token config key)")

	indexNotionCmd.Flags().StringVar(&indexNotionToken, "token", "", "Notion integration token (prompted when absent)")

	indexCmd.AddCommand(indexGitHubCmd)
	indexCmd.AddCommand(indexNotionCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	ing, err := ingestorForFlags(cmd)
	if err != nil {
		return err
	}

	config := map[string]string{"path": root}
	if indexSourceID != "" {
		config["source"] = indexSourceID
	}

	excludes := append([]string{}, indexExcludes...)
	if configStore != nil {
		excludes = append(excludes, configStore.GetStringSlice("ingest.exclude")...)
	}
	if len(excludes) > 0 {
		config["exclude"] = strings.Join(excludes, ",")
	}

	req := driving.IngestRequest{
		SourceType: domain.SourceTypeFilesystem,
		SourceID:   indexSourceID,
		Config:     config,
	}

	cmd.Printf("Indexing %s...\n", root)
	stats, err := ingestWithProgress(cmd.Context(), cmd, ing, req)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}
	printIngestStats(cmd, stats)

	if indexWatch {
		cmd.Println("Watching for changes (ctrl-c to stop)...")
		if err := ing.Watch(cmd.Context(), req); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("watch failed: %w", err)
		}
	}

	return nil
}

func runIndexGitHub(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	repo := args[0]
	token := indexGitHubToken
	if token == "" && configStore != nil {
		token = configStore.GetString("github.token")
	}

	config := map[string]string{"repo": repo}
	if indexGitHubRef != "" {
		config["ref"] = indexGitHubRef
	}
	if token != "" {
		config["token"] = token
	}

	req := driving.IngestRequest{
		SourceType: domain.SourceTypeGitHub,
		Config:     config,
	}

	cmd.Printf("Indexing github.com/%s...\n", repo)
	stats, err := ingestWithProgress(cmd.Context(), cmd, ingestService, req)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}
	printIngestStats(cmd, stats)
	return nil
}

func runIndexNotion(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	pageID := args[0]
	token := indexNotionToken
	if token == "" && configStore != nil {
		token = configStore.GetString("notion.token")
	}
	if token == "" {
		cmd.Print("Notion integration token: ")
		token = readPassword()
		cmd.Println()
	}
	if token == "" {
		return errors.New("notion token is required")
	}

	req := driving.IngestRequest{
		SourceType: domain.SourceTypeNotion,
		Config:     map[string]string{"page_id": pageID, "token": token},
	}

	cmd.Printf("Indexing Notion page %s...\n", pageID)
	stats, err := ingestWithProgress(cmd.Context(), cmd, ingestService, req)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}
	printIngestStats(cmd, stats)
	return nil
}

// ingestorForFlags returns the injected ingestor, or a rebuilt one when
// chunking flags were set explicitly.
func ingestorForFlags(cmd *cobra.Command) (driving.Ingestor, error) {
	overrides := map[string]any{}
	if cmd.Flags().Changed("chunk-size") {
		overrides["chunk_size"] = indexChunkSize
	}
	if cmd.Flags().Changed("overlap") {
		overrides["overlap"] = indexOverlap
	}
	if cmd.Flags().Changed("strip-comments") {
		overrides["strip_comments"] = indexStripComments
	}
	if len(overrides) == 0 || newIngestor == nil {
		return ingestService, nil
	}
	return newIngestor(overrides)
}

// ingestWithProgress runs the ingestion while displaying progress
// updates, polling an indexed-file counter every 500ms.
func ingestWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	ing driving.Ingestor,
	req driving.IngestRequest,
) (driving.IngestStats, error) {
	var indexed atomic.Int64
	req.Progress = func(ev driving.ProgressEvent) {
		if ev.Stage == driving.StageIndex && ev.Err == nil {
			indexed.Add(1)
		}
	}

	type outcome struct {
		stats driving.IngestStats
		err   error
	}
	done := make(chan outcome, 1)
	go func() {
		stats, err := ing.Ingest(ctx, req)
		done <- outcome{stats, err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	var last int64
	for {
		select {
		case out := <-done:
			if indexed.Load() > 0 {
				cmd.Printf("\r")
			}
			return out.stats, out.err
		case <-ticker.C:
			if n := indexed.Load(); n > last {
				cmd.Printf("\rIndexing... %d files", n)
				last = n
			}
		}
	}
}

func printIngestStats(cmd *cobra.Command, stats driving.IngestStats) {
	cmd.Printf("Indexed %d documents (%d chunks) in %s.\n",
		stats.Documents, stats.Chunks, stats.Elapsed.Round(time.Millisecond))
	if stats.Failures > 0 {
		cmd.Printf("Skipped %d files that could not be indexed (use --verbose for details).\n", stats.Failures)
	}
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read the token without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		token, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(token)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
