package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vezlo/src-to-kb/internal/connectors"
	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
	"github.com/vezlo/src-to-kb/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.FileSource = (*Connector)(nil)

// maxBlobSize caps a single fetched blob at 1 MB.
const maxBlobSize = 1024 * 1024

// Connector streams files from one GitHub repository at a ref.
type Connector struct {
	owner string
	repo  string
	ref   string
	token string

	client *Client
}

// Option configures a Connector.
type Option func(*Connector)

// WithRef pins the scan to a branch, tag, or commit SHA. When unset the
// repository's default branch is used.
func WithRef(ref string) Option {
	return func(c *Connector) {
		c.ref = ref
	}
}

// WithToken authenticates API calls with a personal access token.
// Required for private repositories.
func WithToken(token string) Option {
	return func(c *Connector) {
		c.token = token
	}
}

// New creates a GitHub connector for owner/repo.
func New(owner, repo string, opts ...Option) *Connector {
	c := &Connector{
		owner: owner,
		repo:  repo,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = NewClient(context.Background(), c.token)
	return c
}

// ParseRepo splits an "owner/repo" argument.
func ParseRepo(s string) (owner, repo string, err error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", s)
	}
	return parts[0], parts[1], nil
}

// Type returns the source type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceTypeGitHub
}

// ID returns the source identity.
func (c *Connector) ID() string {
	return "github:" + c.owner + "/" + c.repo
}

// Capabilities returns what this source supports.
func (c *Connector) Capabilities() domain.SourceCapabilities {
	return domain.SourceCapabilities{
		SupportsWatch: false,
	}
}

// Validate checks the repository exists and the token (if any) grants
// access to it.
func (c *Connector) Validate(ctx context.Context) error {
	_, err := c.client.GetRepository(ctx, c.owner, c.repo)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return &domain.AuthError{Status: apiErr.StatusCode}
		case 404:
			return fmt.Errorf("repository %s/%s not found", c.owner, c.repo)
		}
	}
	return fmt.Errorf("checking repository %s/%s: %w", c.owner, c.repo, err)
}

// Scan fetches the repository tree recursively and streams every
// ingestible blob. The files channel closes when the scan completes;
// per-blob failures arrive on the error channel without stopping the
// scan.
func (c *Connector) Scan(ctx context.Context) (<-chan domain.SourceFile, <-chan error) {
	files := make(chan domain.SourceFile)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		ref := c.ref
		if ref == "" {
			repository, err := c.client.GetRepository(ctx, c.owner, c.repo)
			if err != nil {
				errs <- fmt.Errorf("resolving default branch: %w", err)
				return
			}
			ref = repository.GetDefaultBranch()
		}

		tree, err := c.client.GetTree(ctx, c.owner, c.repo, ref)
		if err != nil {
			errs <- fmt.Errorf("fetching tree at %s: %w", ref, err)
			return
		}
		if tree.GetTruncated() {
			logger.Warn("Tree for %s/%s is truncated, some files will be missed", c.owner, c.repo)
		}

		for _, entry := range tree.Entries {
			if ctx.Err() != nil {
				return
			}
			if entry.GetType() != "blob" {
				continue
			}

			path := entry.GetPath()
			if connectors.IsHiddenPath(path) || connectors.IsBinaryPath(path) {
				continue
			}
			if entry.GetSize() > maxBlobSize {
				logger.Debug("Skipping oversized blob %s (%d bytes)", path, entry.GetSize())
				continue
			}

			content, err := c.client.GetBlobContent(ctx, c.owner, c.repo, entry.GetSHA())
			if err != nil {
				// Exhausted quota fails every remaining blob too.
				if IsRateLimited(err) {
					errs <- err
					return
				}
				c.reportErr(ctx, errs, fmt.Errorf("fetching %s: %w", path, err))
				continue
			}

			language, docType := connectors.DetectKind(path)
			file := domain.SourceFile{
				RelativePath: path,
				Content:      string(content),
				Size:         int64(len(content)),
				Language:     language,
				Type:         docType,
			}

			select {
			case files <- file:
			case <-ctx.Done():
				return
			}
		}
	}()

	return files, errs
}

// Watch is not supported; GitHub has no change feed without webhooks.
func (c *Connector) Watch(_ context.Context) (<-chan driven.FileChange, error) {
	return nil, domain.ErrWatchUnsupported
}

// Close releases resources. The API client holds none.
func (c *Connector) Close() error {
	return nil
}

// reportErr delivers a per-blob error unless the scan was cancelled.
func (c *Connector) reportErr(ctx context.Context, errs chan<- error, err error) {
	select {
	case errs <- err:
	case <-ctx.Done():
	}
}
