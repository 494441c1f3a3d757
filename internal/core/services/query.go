package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
	"github.com/vezlo/src-to-kb/internal/core/ports/driving"
	"github.com/vezlo/src-to-kb/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

const (
	// snippetRadius is the number of characters kept on each side of a
	// keyword's first occurrence when building a snippet.
	snippetRadius = 80

	// snippetDedupeLen is the prefix length used to recognise two
	// snippets as duplicates of each other.
	snippetDedupeLen = 30
)

// QueryService ranks corpus chunks against keyword queries.
// The delegate is optional - if nil, remote search is unavailable.
type QueryService struct {
	index    driven.CorpusIndex
	delegate driven.SearchDelegate
}

// NewQueryService creates a new query service over the given corpus.
func NewQueryService(index driven.CorpusIndex, delegate driven.SearchDelegate) *QueryService {
	return &QueryService{
		index:    index,
		delegate: delegate,
	}
}

// Search ranks chunks against the query, highest score first.
func (s *QueryService) Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	limit := opts.EffectiveLimit()

	if opts.Remote {
		return s.remoteSearch(ctx, query, limit)
	}

	keywords := splitKeywords(query)
	if len(keywords) == 0 {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}

	logger.Debug("Searching %d documents for %q (limit %d)", s.index.Len(), query, limit)

	var results []domain.SearchResult
	for _, entry := range s.index.Snapshot() {
		for _, chunk := range entry.Chunks {
			if result, ok := scoreChunk(entry.Document, chunk, keywords); ok {
				results = append(results, result)
			}
		}
	}

	// Stable: ties keep document insertion order, then chunk index.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	logger.Debug("Search produced %d results", len(results))
	return results, nil
}

// remoteSearch forwards the query to the configured delegate.
func (s *QueryService) remoteSearch(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if s.delegate == nil {
		return nil, domain.ErrDelegateUnavailable
	}

	logger.Debug("Delegating search for %q (limit %d)", query, limit)
	results, err := s.delegate.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("remote search: %w", err)
	}
	return results, nil
}

// splitKeywords lowercases the query and splits it on whitespace runs.
func splitKeywords(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// scoreChunk sums keyword occurrence counts over a chunk and collects
// one snippet per matching keyword. Reports false when nothing matched.
func scoreChunk(doc domain.Document, chunk domain.Chunk, keywords []string) (domain.SearchResult, bool) {
	lower := strings.ToLower(chunk.Content)

	score := 0
	var snippets []string
	for _, keyword := range keywords {
		count := strings.Count(lower, keyword)
		if count == 0 {
			continue
		}
		score += count

		snippet := extractSnippet(chunk.Content, strings.Index(lower, keyword), len(keyword))
		if snippet != "" && !hasSnippet(snippets, snippet) {
			snippets = append(snippets, snippet)
		}
	}

	if score == 0 {
		return domain.SearchResult{}, false
	}

	return domain.SearchResult{
		DocumentID:       doc.ID,
		DocumentPath:     doc.RelativePath,
		DocumentLanguage: doc.Language,
		ChunkID:          chunk.ID,
		Score:            score,
		Lines:            chunk.Lines(),
		Snippets:         snippets,
		FullContent:      chunk.Content,
		Preview:          domain.MakePreview(chunk.Content),
	}, true
}

// extractSnippet takes snippetRadius characters around the match at
// pos, clamped to the content bounds, with whitespace runs collapsed.
func extractSnippet(content string, pos, matchLen int) string {
	start := pos - snippetRadius
	if start < 0 {
		start = 0
	}
	end := pos + matchLen + snippetRadius
	if end > len(content) {
		end = len(content)
	}
	return strings.Join(strings.Fields(content[start:end]), " ")
}

// hasSnippet reports whether an equivalent snippet was already
// collected, comparing by leading prefix.
func hasSnippet(snippets []string, candidate string) bool {
	key := snippetPrefix(candidate)
	for _, s := range snippets {
		if snippetPrefix(s) == key {
			return true
		}
	}
	return false
}

func snippetPrefix(s string) string {
	if len(s) > snippetDedupeLen {
		return s[:snippetDedupeLen]
	}
	return s
}
