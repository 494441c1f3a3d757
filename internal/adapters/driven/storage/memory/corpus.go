// Package memory provides in-memory driven-port implementations.
// The corpus index here is the primary search surface; the config
// store backs tests and ephemeral runs.
package memory

import (
	"sync"

	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
)

// Ensure CorpusIndex implements the interface.
var _ driven.CorpusIndex = (*CorpusIndex)(nil)

// CorpusIndex is the in-memory implementation of driven.CorpusIndex.
// A single RWMutex serializes writes, so concurrent Puts for the same
// document resolve to last-writer-wins, and Snapshot readers never see
// a half-replaced entry.
type CorpusIndex struct {
	mu      sync.RWMutex
	entries map[string]driven.IndexEntry
	order   []string
}

// NewCorpusIndex creates an empty corpus index.
func NewCorpusIndex() *CorpusIndex {
	return &CorpusIndex{
		entries: make(map[string]driven.IndexEntry),
	}
}

// Put stores or atomically replaces a document and its chunks.
// Replacement keeps the document's original insertion position so
// iteration order, and therefore ranking tie-breaks, stay stable
// across re-ingestion.
func (c *CorpusIndex) Put(doc domain.Document, chunks []domain.Chunk) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[doc.ID]; !exists {
		c.order = append(c.order, doc.ID)
	}
	c.entries[doc.ID] = driven.IndexEntry{Document: doc, Chunks: chunks}
}

// Get retrieves a document and its chunks by ID.
func (c *CorpusIndex) Get(id string) (driven.IndexEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	return entry, ok
}

// Remove drops a document and its chunks.
func (c *CorpusIndex) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; !ok {
		return false
	}
	delete(c.entries, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Snapshot returns every entry in insertion order. The slice is a
// copy; chunks are shared but immutable after ingestion.
func (c *CorpusIndex) Snapshot() []driven.IndexEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]driven.IndexEntry, 0, len(c.order))
	for _, id := range c.order {
		snapshot = append(snapshot, c.entries[id])
	}
	return snapshot
}

// Len returns the number of indexed documents.
func (c *CorpusIndex) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}
