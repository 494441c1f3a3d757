package driving

import (
	"context"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// DocumentService exposes the indexed corpus to external actors.
type DocumentService interface {
	// List returns all indexed documents in insertion order.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document and its chunks by ID.
	// Returns domain.ErrNotFound when the document is not indexed.
	Get(ctx context.Context, id string) (domain.Document, []domain.Chunk, error)

	// Content returns the document's full normalized content.
	// Returns domain.ErrNotFound when the document is not indexed.
	Content(ctx context.Context, id string) (string, error)
}
