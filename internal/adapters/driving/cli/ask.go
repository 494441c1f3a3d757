package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

var (
	askMode   string
	askLimit  int
	askRemote bool
	askJSON   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the indexed code",
	Long: `Asks a natural-language question and synthesizes an answer from the
indexed codebase, together with the files the answer is grounded in.

Modes tailor the answer to an audience:
  enduser    - plain language, no code blocks or internal files
  developer  - full technical detail (default)
  copilot    - code-first, short excerpts included`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askMode, "mode", "m", "", "answer mode: enduser, developer or copilot")
	askCmd.Flags().IntVarP(&askLimit, "limit", "n", 10, "maximum results consulted")
	askCmd.Flags().BoolVar(&askRemote, "remote", false, "search through the configured remote delegate")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if answerService == nil {
		return errors.New("answer service not configured")
	}

	mode := askMode
	if mode == "" && configStore != nil {
		mode = configStore.GetString("answer.default_mode")
	}

	opts := domain.SearchOptions{
		Limit:  askLimit,
		Mode:   mode,
		Remote: askRemote,
	}

	answer, err := answerService.Ask(cmd.Context(), question, opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}

	return outputAnswerText(cmd, answer)
}

func outputAnswerJSON(cmd *cobra.Command, answer domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAnswerText(cmd *cobra.Command, answer domain.Answer) error {
	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Printf("Confidence: %.0f%%\n", answer.Confidence*100)

	if len(answer.Evidence) > 0 {
		cmd.Println("Evidence:")
		for _, ev := range answer.Evidence {
			cmd.Printf("  %s (lines %s)\n", ev.File, ev.Lines)
		}
	}

	return nil
}
