// Package cli wires the cobra command tree for the src-to-kb binary.
// Commands call injected driving ports and degrade to clear errors when
// a port was not wired, so partial setups stay debuggable.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
	"github.com/vezlo/src-to-kb/internal/core/ports/driving"
	"github.com/vezlo/src-to-kb/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Injected driving ports. Commands check for nil before use.
var (
	ingestService   driving.Ingestor
	queryService    driving.QueryService
	answerService   driving.AnswerService
	documentService driving.DocumentService
	configStore     driven.ConfigStore

	// newIngestor rebuilds the ingestor when index flags override the
	// configured chunking (keys: chunk_size, overlap, strip_comments).
	newIngestor func(chunking map[string]any) (driving.Ingestor, error)
)

// Global flags.
var (
	verboseFlag bool
	dataDirFlag string
)

// bootstrap wires the services once flags are parsed. Set from main;
// nil in tests, which inject service vars directly.
var (
	bootstrap    func(dataDir string) error
	bootstrapped bool
)

var rootCmd = &cobra.Command{
	Use:   "src-to-kb",
	Short: "Turn source trees into a searchable knowledge base",
	Long: `src-to-kb indexes source code into a chunked, searchable knowledge base.

Index a local directory, a GitHub repository or a Notion page tree, then
search the corpus by keyword or ask questions answered from the indexed
code with file-level evidence.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)
		if bootstrap == nil || bootstrapped {
			return nil
		}
		bootstrapped = true
		return bootstrap(dataDirFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default ~/.src-to-kb)")
}

// Services bundles the wired ports the commands call.
type Services struct {
	Ingestor  driving.Ingestor
	Query     driving.QueryService
	Answer    driving.AnswerService
	Documents driving.DocumentService
	Config    driven.ConfigStore

	// NewIngestor builds an ingestor with per-run chunking overrides
	// for index runs that set --chunk-size, --overlap or
	// --strip-comments. Optional - if nil, overrides are ignored.
	NewIngestor func(chunking map[string]any) (driving.Ingestor, error)
}

// SetServices injects the wired ports into the command tree.
func SetServices(s Services) {
	ingestService = s.Ingestor
	queryService = s.Query
	answerService = s.Answer
	documentService = s.Documents
	configStore = s.Config
	newIngestor = s.NewIngestor
}

// SetBootstrap registers the wiring function run after flag parsing and
// before any command. It receives the resolved --data-dir value.
func SetBootstrap(fn func(dataDir string) error) {
	bootstrap = fn
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command with the given context.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
