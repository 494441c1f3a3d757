package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockQuery := &mockQueryService{
			results: []domain.SearchResult{
				{
					DocumentID:       "doc-1",
					DocumentPath:     "src/auth/login.js",
					DocumentLanguage: "JavaScript",
					ChunkID:          "doc-1_chunk_0",
					Score:            7,
					Lines:            domain.LineRange{Start: 0, End: 24},
					Snippets:         []string{"function login("},
					FullContent:      "function login(user, password) {}",
				},
			},
		}

		server := newTestServer(t, &Ports{Query: mockQuery, Answer: &mockAnswerService{}})

		input := SearchInput{Query: "login", Limit: 10}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, "doc-1", output.Results[0].DocumentID)
		assert.Equal(t, "src/auth/login.js", output.Results[0].Path)
		assert.Equal(t, "JavaScript", output.Results[0].Language)
		assert.Equal(t, 7, output.Results[0].Score)
		assert.Equal(t, "0-24", output.Results[0].Lines)
		assert.Equal(t, []string{"function login("}, output.Results[0].Snippets)
		assert.Equal(t, "function login(user, password) {}", output.Results[0].Content)
	})

	t.Run("passes limit and mode through", func(t *testing.T) {
		mockQuery := &mockQueryService{}
		server := newTestServer(t, &Ports{Query: mockQuery, Answer: &mockAnswerService{}})

		input := SearchInput{Query: "login", Limit: 5, Mode: "enduser"}
		_, output, err := server.handleSearch(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Equal(t, 5, mockQuery.gotOpts.Limit)
		assert.Equal(t, "enduser", mockQuery.gotOpts.Mode)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockQuery := &mockQueryService{
			err: errors.New("search failed"),
		}
		server := newTestServer(t, &Ports{Query: mockQuery, Answer: &mockAnswerService{}})

		input := SearchInput{Query: "login"}
		_, _, err := server.handleSearch(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the synthesized answer", func(t *testing.T) {
		mockAnswer := &mockAnswerService{
			answer: domain.Answer{
				Text:       "Authentication lives in src/auth/login.js.",
				Confidence: 0.84,
				TopFiles:   []string{"src/auth/login.js"},
				Evidence: []domain.Evidence{
					{
						File:    "src/auth/login.js",
						Lines:   domain.LineRange{Start: 0, End: 24},
						Context: "function login(",
					},
				},
			},
		}

		server := newTestServer(t, &Ports{Query: &mockQueryService{}, Answer: mockAnswer})

		input := AskInput{Question: "How does authentication work?"}
		_, output, err := server.handleAsk(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "Authentication lives in src/auth/login.js.", output.Answer)
		assert.Equal(t, 0.84, output.Confidence)
		assert.Equal(t, []string{"src/auth/login.js"}, output.TopFiles)
		require.Len(t, output.Evidence, 1)
		assert.Equal(t, "src/auth/login.js", output.Evidence[0].File)
		assert.Equal(t, "0-24", output.Evidence[0].Lines)
		assert.Equal(t, "function login(", output.Evidence[0].Context)
	})

	t.Run("passes mode through", func(t *testing.T) {
		mockAnswer := &mockAnswerService{}
		server := newTestServer(t, &Ports{Query: &mockQueryService{}, Answer: mockAnswer})

		input := AskInput{Question: "How does login work?", Mode: "copilot"}
		_, _, err := server.handleAsk(ctx, nil, input)

		require.NoError(t, err)
		assert.Equal(t, "copilot", mockAnswer.gotOpts.Mode)
	})

	t.Run("returns error on ask failure", func(t *testing.T) {
		mockAnswer := &mockAnswerService{
			err: errors.New("nothing indexed"),
		}
		server := newTestServer(t, &Ports{Query: &mockQueryService{}, Answer: mockAnswer})

		input := AskInput{Question: "How does login work?"}
		_, _, err := server.handleAsk(ctx, nil, input)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "nothing indexed")
	})
}
