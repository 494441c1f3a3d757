package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed documents",
	Long: `Searches the knowledge base by keyword. Every whitespace-separated
term is matched case-insensitively and chunks are ranked by how often
the terms occur.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if queryService == nil {
		return errors.New("query service not configured")
	}

	limit := searchLimit
	if !cmd.Flags().Changed("limit") && configStore != nil {
		if v := configStore.GetInt("search.default_limit"); v > 0 {
			limit = v
		}
	}

	opts := domain.SearchOptions{
		Limit: limit,
	}

	results, err := queryService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		r := &results[i]

		cmd.Printf("  [%d] %s (lines %s, score %d)\n", i+1, r.DocumentPath, r.Lines, r.Score)
		if r.DocumentLanguage != "" {
			cmd.Printf("      Language: %s\n", r.DocumentLanguage)
		}
		if len(r.Snippets) > 0 {
			cmd.Printf("      %s\n", r.Snippets[0])
		}
		cmd.Println()
	}

	return nil
}
