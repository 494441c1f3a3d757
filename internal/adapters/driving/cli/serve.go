package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/vezlo/src-to-kb/internal/adapters/driving/api"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the knowledge base over HTTP",
	Long: `Starts an HTTP server exposing search, ask and document endpoints as
JSON. The server shuts down gracefully on interrupt.

Endpoints:
  POST /api/search          {"query": ..., "limit": ..., "mode": ...}
  POST /api/ask             {"question": ..., "mode": ..., "remote": ...}
  GET  /api/documents       list indexed documents
  GET  /api/documents/{id}  document metadata and content
  GET  /healthz             liveness probe`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if queryService == nil || answerService == nil || documentService == nil {
		return errors.New("api services not configured")
	}

	server := api.NewServer(&api.Ports{
		Query:     queryService,
		Answer:    answerService,
		Documents: documentService,
	})

	cmd.Printf("API server listening on %s\n", serveAddr)
	return server.Run(cmd.Context(), serveAddr)
}
