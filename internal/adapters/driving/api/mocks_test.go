package api

import (
	"context"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// mockQueryService is a mock implementation of driving.QueryService.
type mockQueryService struct {
	results  []domain.SearchResult
	err      error
	gotQuery string
	gotOpts  domain.SearchOptions
}

func (m *mockQueryService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	m.gotQuery = query
	m.gotOpts = opts
	return m.results, m.err
}

// mockAnswerService is a mock implementation of driving.AnswerService.
type mockAnswerService struct {
	answer      domain.Answer
	err         error
	gotQuestion string
	gotOpts     domain.SearchOptions
}

func (m *mockAnswerService) Ask(
	_ context.Context,
	question string,
	opts domain.SearchOptions,
) (domain.Answer, error) {
	m.gotQuestion = question
	m.gotOpts = opts
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	return m.answer, nil
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	chunks    []domain.Chunk
	content   string
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, id string) (domain.Document, []domain.Chunk, error) {
	if m.err != nil {
		return domain.Document{}, nil, m.err
	}
	for _, d := range m.documents {
		if d.ID == id {
			return d, m.chunks, nil
		}
	}
	return domain.Document{}, nil, domain.ErrNotFound
}

func (m *mockDocumentService) Content(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}
