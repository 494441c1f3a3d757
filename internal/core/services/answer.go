package services

import (
	"context"
	"fmt"

	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driving"
	"github.com/vezlo/src-to-kb/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// AnswerService turns questions into synthesized answers backed by
// ranked search results.
type AnswerService struct {
	queries       driving.QueryService
	fallbackLocal bool
}

// NewAnswerService creates a new answer service. When fallbackLocal is
// true, a failed remote search retries against the local corpus
// instead of surfacing the transport error.
func NewAnswerService(queries driving.QueryService, fallbackLocal bool) *AnswerService {
	return &AnswerService{
		queries:       queries,
		fallbackLocal: fallbackLocal,
	}
}

// Ask searches the corpus, applies the requested mode and synthesizes
// an answer. A question with no matches yields the not-found answer
// with zero confidence, not an error.
func (s *AnswerService) Ask(ctx context.Context, question string, opts domain.SearchOptions) (domain.Answer, error) {
	mode := domain.ModeFromKey(opts.Mode)
	logger.Debug("Answering %q (mode %s, remote %t)", question, mode.Key, opts.Remote)

	results, err := s.queries.Search(ctx, question, opts)
	if err != nil {
		if !opts.Remote || !s.fallbackLocal {
			return domain.Answer{}, fmt.Errorf("ask: %w", err)
		}

		logger.Warn("Remote search failed, falling back to local corpus: %v", err)
		local := opts
		local.Remote = false
		results, err = s.queries.Search(ctx, question, local)
		if err != nil {
			return domain.Answer{}, fmt.Errorf("ask: %w", err)
		}
	}

	filtered := FilterByMode(results, mode)
	return Synthesize(question, filtered, mode), nil
}
