package driven

import "github.com/vezlo/src-to-kb/internal/core/domain"

// IndexEntry pairs a document with its ordered chunks.
type IndexEntry struct {
	// Document is the indexed document.
	Document domain.Document

	// Chunks are the document's chunks ordered by index.
	Chunks []domain.Chunk
}

// CorpusIndex is the in-memory corpus the query engine searches.
// Implementations are safe for concurrent use: writes for the same
// document ID are serialized (last writer wins), and readers observe a
// point-in-time snapshot. Operations never fail, so the interface
// carries no errors.
type CorpusIndex interface {
	// Put stores or atomically replaces a document and its chunks.
	// A replaced document keeps its original insertion position so
	// iteration order is stable across re-ingestion.
	Put(doc domain.Document, chunks []domain.Chunk)

	// Get retrieves a document and its chunks by ID.
	Get(id string) (IndexEntry, bool)

	// Remove drops a document and its chunks. Returns false when the
	// document was not indexed.
	Remove(id string) bool

	// Snapshot returns every entry in insertion order. The returned
	// slice is a copy and stays consistent while ingestion continues.
	Snapshot() []IndexEntry

	// Len returns the number of indexed documents.
	Len() int
}
