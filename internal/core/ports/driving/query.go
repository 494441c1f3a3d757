package driving

import (
	"context"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// QueryService provides keyword search over the corpus to external actors.
type QueryService interface {
	// Search ranks chunks against the query. Local searches never
	// fail for well-formed input: an empty or unmatched query returns
	// an empty slice. Remote searches (opts.Remote) can return
	// transport and configuration errors.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
