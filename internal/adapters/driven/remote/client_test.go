package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

func testConfig(endpoint string) Config {
	return Config{
		Endpoint:   endpoint,
		Timeout:    2 * time.Second,
		Retries:    2,
		RetryDelay: time.Millisecond,
	}
}

func TestNewClient_MissingEndpoint(t *testing.T) {
	client, err := NewClient(Config{})

	assert.Nil(t, client)
	assert.True(t, domain.IsConfigError(err))
	assert.Contains(t, err.Error(), "remote.endpoint")
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Config{Endpoint: "https://kb.example.com/api/search"})
	require.NoError(t, err)

	assert.Equal(t, DefaultTimeout, client.client.Timeout)
	assert.Equal(t, DefaultRetries, client.retries)
	assert.Equal(t, DefaultRetryDelay, client.retryDelay)
}

func TestClient_Search_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "kb-secret", r.Header.Get("x-api-key"))

		var req searchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "password reset", req.Query)
		assert.Equal(t, 5, req.Limit)

		resp := searchResponse{
			Results: []domain.SearchResult{
				{
					DocumentID:   "doc-1",
					DocumentPath: "src/auth/reset.js",
					ChunkID:      "doc-1_chunk_0",
					Score:        4,
					Lines:        domain.LineRange{Start: 0, End: 12},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.APIKey = "kb-secret"
	client, err := NewClient(cfg)
	require.NoError(t, err)

	results, err := client.Search(context.Background(), "password reset", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "src/auth/reset.js", results[0].DocumentPath)
	assert.Equal(t, 4, results[0].Score)
}

func TestClient_Search_OmitsAPIKeyWhenUnset(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["X-Api-Key"]
		assert.False(t, present, "x-api-key should not be sent without a key")
		require.NoError(t, json.NewEncoder(w).Encode(searchResponse{}))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "anything", 10)
	assert.NoError(t, err)
}

func TestClient_Search_RetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32

	// Fails twice, then succeeds.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		require.NoError(t, json.NewEncoder(w).Encode(searchResponse{
			Results: []domain.SearchResult{{DocumentID: "doc-1"}},
		}))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	results, err := client.Search(context.Background(), "query", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_Search_ExhaustsRetries(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "query", 10)
	require.Error(t, err)

	var transportErr *domain.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "remote-search", transportErr.Stage)
	assert.Equal(t, 3, transportErr.Attempts)
	assert.Equal(t, http.StatusInternalServerError, transportErr.Status)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_Search_AuthErrorNotRetried(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		var attempts atomic.Int32

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts.Add(1)
			w.WriteHeader(status)
		}))

		client, err := NewClient(testConfig(server.URL))
		require.NoError(t, err)

		_, err = client.Search(context.Background(), "query", 10)

		var authErr *domain.AuthError
		require.ErrorAs(t, err, &authErr)
		assert.Equal(t, status, authErr.Status)
		assert.Equal(t, int32(1), attempts.Load(), "auth failures must not be retried")

		server.Close()
	}
}

func TestClient_Search_ConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Refuse all connections.

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "query", 10)

	var transportErr *domain.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 0, transportErr.Status, "no HTTP status when the server is unreachable")
	assert.Equal(t, 3, transportErr.Attempts)
}

func TestClient_Search_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RetryDelay = time.Second
	client, err := NewClient(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	// Cancel hits during the first retry delay.
	_, err = client.Search(ctx, "query", 10)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Search_MalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "query", 10)

	var transportErr *domain.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Contains(t, transportErr.Unwrap().Error(), "decode response")
}
