// Package remote provides a SearchDelegate that forwards queries to an
// external knowledge-base service over HTTP.
//
// The wire format mirrors this project's own /api/search endpoint, so one
// src-to-kb instance can delegate to another.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.SearchDelegate = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout    = 10 * time.Second
	DefaultRetries    = 2
	DefaultRetryDelay = 500 * time.Millisecond
)

// Config holds configuration for the remote search client.
type Config struct {
	// Endpoint is the search URL (required),
	// e.g. https://kb.example.com/api/search.
	Endpoint string

	// APIKey is sent as the x-api-key header when set.
	APIKey string

	// Timeout bounds each individual attempt (default: 10s).
	Timeout time.Duration

	// Retries is the number of additional attempts after the first
	// (default: 2).
	Retries int

	// RetryDelay is the fixed pause between attempts (default: 500ms).
	RetryDelay time.Duration
}

// Client delegates search to a remote service.
type Client struct {
	client     *http.Client
	endpoint   string
	apiKey     string
	retries    int
	retryDelay time.Duration
}

// searchRequest is the delegate request body.
type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// searchResponse is the delegate response body.
type searchResponse struct {
	Results []domain.SearchResult `json:"results"`
}

// NewClient creates a new remote search client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, domain.NewConfigError("remote.endpoint", "not set")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = DefaultRetryDelay
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		retries:    cfg.Retries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Search runs the query remotely. Each attempt gets the client timeout;
// transient failures are retried with a fixed delay. Credential
// rejections (401/403) are terminal and never retried.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	attempts := c.retries + 1

	var lastErr error
	var lastStatus int

	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		results, status, err := c.doSearch(ctx, query, limit)
		if err == nil {
			return results, nil
		}

		var authErr *domain.AuthError
		if errors.As(err, &authErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		lastErr = err
		lastStatus = status
	}

	return nil, &domain.TransportError{
		Stage:    "remote-search",
		Attempts: attempts,
		Status:   lastStatus,
		Err:      lastErr,
	}
}

// doSearch performs a single request. It returns the last HTTP status
// observed (0 when the request never reached the server).
func (c *Client) doSearch(ctx context.Context, query string, limit int) ([]domain.SearchResult, int, error) {
	jsonBody, err := json.Marshal(searchRequest{Query: query, Limit: limit})
	if err != nil {
		return nil, 0, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, resp.StatusCode, &domain.AuthError{Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("delegate returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}

	return parsed.Results, resp.StatusCode, nil
}
