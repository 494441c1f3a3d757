package driven

import (
	"context"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// KnowledgeStore persists documents and chunks across runs.
// Backed by SQLite. The store is durability only: queries always run
// against the CorpusIndex, which is hydrated from the store at startup.
type KnowledgeStore interface {
	// SaveDocument stores or updates a document. Replacing a document
	// removes its prior chunks in the same transaction.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks for a document.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document, ordered by index.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents in insertion order.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// LoadAll returns every document with its chunks in insertion
	// order, for corpus hydration at startup.
	LoadAll(ctx context.Context) ([]IndexEntry, error)

	// Close releases resources.
	Close() error
}
