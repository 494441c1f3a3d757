// Package api exposes the knowledge base over HTTP. Handlers speak JSON
// and mirror the CLI surface: search, ask and document inspection.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/vezlo/src-to-kb/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces the API server needs.
type Ports struct {
	// Query provides keyword search over the corpus.
	Query driving.QueryService

	// Answer synthesizes answers to questions.
	Answer driving.AnswerService

	// Documents exposes indexed documents.
	Documents driving.DocumentService
}

// Server serves the knowledge base endpoints.
type Server struct {
	ports *Ports
	mux   *http.ServeMux
}

// NewServer creates an API server around the given ports.
func NewServer(ports *Ports) *Server {
	s := &Server{
		ports: ports,
		mux:   http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/search", s.handleSearch)
	s.mux.HandleFunc("/api/ask", s.handleAsk)
	s.mux.HandleFunc("/api/documents", s.handleDocumentList)
	s.mux.HandleFunc("/api/documents/", s.handleDocumentGet)
	s.mux.HandleFunc("/healthz", s.handleHealth)

	return s
}

// Handler returns the root HTTP handler. Exposed for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run serves on addr until the context is cancelled or the listener
// fails. Shutdown drains in-flight requests for up to five seconds.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
