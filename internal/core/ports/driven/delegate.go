package driven

import (
	"context"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// SearchDelegate forwards a query to a remote knowledge-base service.
// Implementations own transport policy: per-call timeout, retry with a
// fixed delay, and typed failures (domain.AuthError for rejected
// credentials, domain.TransportError after retries are exhausted).
// Cancelling the context aborts the in-flight request.
type SearchDelegate interface {
	// Search runs the query remotely and returns ranked results.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}
