package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vezlo/src-to-kb/internal/adapters/driven/storage/memory"
	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// --- Shared fixtures ---

// testDoc builds a document with a deterministic ID.
func testDoc(path, language string) domain.Document {
	return domain.Document{
		ID:           domain.NewDocumentID("test", path),
		SourceID:     "test",
		RelativePath: path,
		Language:     language,
		Type:         domain.DocumentTypeCode,
	}
}

// testChunk builds a chunk belonging to the document.
func testChunk(doc domain.Document, index int, content string) domain.Chunk {
	return domain.Chunk{
		ID:         domain.NewChunkID(doc.ID, index),
		DocumentID: doc.ID,
		Index:      index,
		Content:    content,
		StartLine:  index * 10,
		EndLine:    index*10 + 9,
		Size:       len(content),
	}
}

// indexDoc puts a single-chunk document into the corpus.
func indexDoc(index *memory.CorpusIndex, path, language, content string) domain.Document {
	doc := testDoc(path, language)
	index.Put(doc, []domain.Chunk{testChunk(doc, 0, content)})
	return doc
}

// mockDelegate implements driven.SearchDelegate.
type mockDelegate struct {
	results  []domain.SearchResult
	err      error
	gotQuery string
	gotLimit int
}

func (m *mockDelegate) Search(_ context.Context, query string, limit int) ([]domain.SearchResult, error) {
	m.gotQuery = query
	m.gotLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// --- Tests ---

func TestQueryService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("scores by occurrence count", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		indexDoc(index, "src/auth.js", "JavaScript", "auth auth auth")
		indexDoc(index, "src/main.js", "JavaScript", "auth only once here")

		results, err := NewQueryService(index, nil).Search(ctx, "auth", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "src/auth.js", results[0].DocumentPath)
		assert.Equal(t, 3, results[0].Score)
		assert.Equal(t, "src/main.js", results[1].DocumentPath)
		assert.Equal(t, 1, results[1].Score)
	})

	t.Run("sums scores across keywords", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		indexDoc(index, "src/login.js", "JavaScript", "login validates the session token, token refresh included")

		results, err := NewQueryService(index, nil).Search(ctx, "login token", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 3, results[0].Score)
	})

	t.Run("matching is case insensitive", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		indexDoc(index, "README.md", "Markdown", "The Auth Module handles AUTH flows")

		results, err := NewQueryService(index, nil).Search(ctx, "AUTH", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 2, results[0].Score)
	})

	t.Run("empty query returns no results", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		indexDoc(index, "src/a.go", "Go", "package a")

		for _, query := range []string{"", "   ", "\t\n"} {
			results, err := NewQueryService(index, nil).Search(ctx, query, domain.SearchOptions{})
			require.NoError(t, err)
			assert.Empty(t, results)
		}
	})

	t.Run("unmatched query returns empty without error", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		indexDoc(index, "src/a.go", "Go", "package a")

		results, err := NewQueryService(index, nil).Search(ctx, "xyzzy-nonexistent-token", domain.SearchOptions{})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("results carry document metadata", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		doc := indexDoc(index, "src/auth/login.js", "JavaScript", "function login() {}")

		results, err := NewQueryService(index, nil).Search(ctx, "login", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)

		r := results[0]
		assert.Equal(t, doc.ID, r.DocumentID)
		assert.Equal(t, "src/auth/login.js", r.DocumentPath)
		assert.Equal(t, "JavaScript", r.DocumentLanguage)
		assert.Equal(t, domain.NewChunkID(doc.ID, 0), r.ChunkID)
		assert.Equal(t, domain.LineRange{Start: 0, End: 9}, r.Lines)
		assert.Equal(t, "function login() {}", r.FullContent)
		assert.Equal(t, "function login() {}", r.Preview)
	})

	t.Run("preview truncates long content", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		content := "needle " + strings.Repeat("x", 300)
		indexDoc(index, "big.txt", "Text", content)

		results, err := NewQueryService(index, nil).Search(ctx, "needle", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Len(t, results[0].Preview, domain.PreviewLength)
		assert.Equal(t, content, results[0].FullContent)
	})

	t.Run("snippets surround the first occurrence", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		content := strings.Repeat("a", 200) + " needle " + strings.Repeat("b", 200)
		indexDoc(index, "pad.txt", "Text", content)

		results, err := NewQueryService(index, nil).Search(ctx, "needle", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Len(t, results[0].Snippets, 1)

		snippet := results[0].Snippets[0]
		assert.Contains(t, snippet, "needle")
		// 80 chars each side plus the match and two separators.
		assert.LessOrEqual(t, len(snippet), 2*80+len("needle")+2)
	})

	t.Run("snippets collapse internal whitespace", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		indexDoc(index, "ws.txt", "Text", "before\n\n\tneedle\t\t after")

		results, err := NewQueryService(index, nil).Search(ctx, "needle", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, []string{"before needle after"}, results[0].Snippets)
	})

	t.Run("overlapping keyword snippets dedupe by prefix", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		// Both keywords sit within the same clamped window, so their
		// snippets share a leading prefix and collapse to one.
		indexDoc(index, "fox.txt", "Text", "the quick brown fox jumps over the lazy dog")

		results, err := NewQueryService(index, nil).Search(ctx, "quick brown", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 2, results[0].Score)
		assert.Len(t, results[0].Snippets, 1)
	})

	t.Run("distant keywords keep separate snippets", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		content := "alpha " + strings.Repeat("filler ", 40) + "omega"
		indexDoc(index, "far.txt", "Text", content)

		results, err := NewQueryService(index, nil).Search(ctx, "alpha omega", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Len(t, results[0].Snippets, 2)
	})

	t.Run("applies the default limit", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		for i := 0; i < domain.DefaultSearchLimit+5; i++ {
			indexDoc(index, fmt.Sprintf("src/f%02d.go", i), "Go", "needle content")
		}

		results, err := NewQueryService(index, nil).Search(ctx, "needle", domain.SearchOptions{})
		require.NoError(t, err)
		assert.Len(t, results, domain.DefaultSearchLimit)
	})

	t.Run("honors an explicit limit", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		for i := 0; i < 5; i++ {
			indexDoc(index, fmt.Sprintf("src/f%d.go", i), "Go", "needle content")
		}

		results, err := NewQueryService(index, nil).Search(ctx, "needle", domain.SearchOptions{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("tied scores keep insertion order", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		indexDoc(index, "first.go", "Go", "needle")
		indexDoc(index, "second.go", "Go", "needle")
		indexDoc(index, "third.go", "Go", "needle needle")

		results, err := NewQueryService(index, nil).Search(ctx, "needle", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, "third.go", results[0].DocumentPath)
		assert.Equal(t, "first.go", results[1].DocumentPath)
		assert.Equal(t, "second.go", results[2].DocumentPath)
	})

	t.Run("ranks chunks within a document by index on ties", func(t *testing.T) {
		index := memory.NewCorpusIndex()
		doc := testDoc("multi.go", "Go")
		index.Put(doc, []domain.Chunk{
			testChunk(doc, 0, "needle here"),
			testChunk(doc, 1, "needle there"),
		})

		results, err := NewQueryService(index, nil).Search(ctx, "needle", domain.SearchOptions{})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, domain.NewChunkID(doc.ID, 0), results[0].ChunkID)
		assert.Equal(t, domain.NewChunkID(doc.ID, 1), results[1].ChunkID)
	})
}

func TestQueryService_Search_MoreOccurrencesNeverScoreLower(t *testing.T) {
	ctx := context.Background()
	index := memory.NewCorpusIndex()

	base := "some needle content"
	indexDoc(index, "base.txt", "Text", base)
	indexDoc(index, "more.txt", "Text", base+" needle needle")

	results, err := NewQueryService(index, nil).Search(ctx, "needle", domain.SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "more.txt", results[0].DocumentPath)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestQueryService_Search_Remote(t *testing.T) {
	ctx := context.Background()

	t.Run("routes to the delegate", func(t *testing.T) {
		remote := []domain.SearchResult{{DocumentPath: "remote.go", Score: 7}}
		delegate := &mockDelegate{results: remote}
		svc := NewQueryService(memory.NewCorpusIndex(), delegate)

		results, err := svc.Search(ctx, "needle", domain.SearchOptions{Remote: true, Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, remote, results)
		assert.Equal(t, "needle", delegate.gotQuery)
		assert.Equal(t, 5, delegate.gotLimit)
	})

	t.Run("applies the default limit remotely", func(t *testing.T) {
		delegate := &mockDelegate{}
		svc := NewQueryService(memory.NewCorpusIndex(), delegate)

		_, err := svc.Search(ctx, "needle", domain.SearchOptions{Remote: true})
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSearchLimit, delegate.gotLimit)
	})

	t.Run("wraps delegate failures", func(t *testing.T) {
		delegate := &mockDelegate{err: errors.New("boom")}
		svc := NewQueryService(memory.NewCorpusIndex(), delegate)

		_, err := svc.Search(ctx, "needle", domain.SearchOptions{Remote: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "remote search")
	})

	t.Run("errors when no delegate is configured", func(t *testing.T) {
		svc := NewQueryService(memory.NewCorpusIndex(), nil)

		_, err := svc.Search(ctx, "needle", domain.SearchOptions{Remote: true})
		require.ErrorIs(t, err, domain.ErrDelegateUnavailable)
	})
}
