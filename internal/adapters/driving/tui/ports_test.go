package tui

import (
	"context"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// MockAnswerService implements driving.AnswerService for testing.
type MockAnswerService struct {
	AskFunc func(
		ctx context.Context, question string, opts domain.SearchOptions,
	) (domain.Answer, error)
}

func (m *MockAnswerService) Ask(
	ctx context.Context, question string, opts domain.SearchOptions,
) (domain.Answer, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, question, opts)
	}
	return domain.Answer{}, nil
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc    func(ctx context.Context) ([]domain.Document, error)
	GetFunc     func(ctx context.Context, id string) (domain.Document, []domain.Chunk, error)
	ContentFunc func(ctx context.Context, id string) (string, error)
}

func (m *MockDocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *MockDocumentService) Get(
	ctx context.Context, id string,
) (domain.Document, []domain.Chunk, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return domain.Document{}, nil, domain.ErrNotFound
}

func (m *MockDocumentService) Content(ctx context.Context, id string) (string, error) {
	if m.ContentFunc != nil {
		return m.ContentFunc(ctx, id)
	}
	return "", domain.ErrNotFound
}
