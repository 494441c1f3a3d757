package services

import (
	"context"
	"fmt"

	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
	"github.com/vezlo/src-to-kb/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes the indexed corpus to external actors.
type DocumentService struct {
	index driven.CorpusIndex
}

// NewDocumentService creates a new document service over the corpus.
func NewDocumentService(index driven.CorpusIndex) *DocumentService {
	return &DocumentService{index: index}
}

// List returns all indexed documents in insertion order.
func (s *DocumentService) List(_ context.Context) ([]domain.Document, error) {
	entries := s.index.Snapshot()
	docs := make([]domain.Document, 0, len(entries))
	for _, entry := range entries {
		docs = append(docs, entry.Document)
	}
	return docs, nil
}

// Get retrieves a document and its chunks by ID.
func (s *DocumentService) Get(_ context.Context, id string) (domain.Document, []domain.Chunk, error) {
	entry, ok := s.index.Get(id)
	if !ok {
		return domain.Document{}, nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return entry.Document, entry.Chunks, nil
}

// Content returns the document's full normalized content.
func (s *DocumentService) Content(_ context.Context, id string) (string, error) {
	entry, ok := s.index.Get(id)
	if !ok {
		return "", fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return entry.Document.Content, nil
}
