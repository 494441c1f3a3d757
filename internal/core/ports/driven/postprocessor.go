package driven

import (
	"context"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// PostProcessor processes document content on its way into the corpus.
// PostProcessors are chained in a pipeline (e.g. cleaning, chunking).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a document and returns chunks.
	// A processor that rewrites content (e.g. the cleaner) mutates the
	// document and passes chunks through. A processor that creates
	// chunks (the chunker) receives nil and returns new chunks.
	Process(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the document through all processors in order.
	// Returns the final chunks after all processing.
	Process(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}
