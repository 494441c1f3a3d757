package driving

import (
	"context"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// AnswerService turns questions into synthesized answers with evidence.
type AnswerService interface {
	// Ask searches the corpus (or the remote delegate when
	// opts.Remote is set), filters results by the requested mode and
	// synthesizes an answer. A question with no matches yields the
	// not-found answer with zero confidence, not an error.
	Ask(ctx context.Context, question string, opts domain.SearchOptions) (domain.Answer, error)
}
