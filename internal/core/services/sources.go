package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/vezlo/src-to-kb/internal/connectors/filesystem"
	"github.com/vezlo/src-to-kb/internal/connectors/github"
	"github.com/vezlo/src-to-kb/internal/connectors/notion"
	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
)

// Ensure SourceFactory implements the interface.
var _ driven.SourceFactory = (*SourceFactory)(nil)

// DefaultFilesystemSourceID names filesystem sources that do not set one.
const DefaultFilesystemSourceID = "local"

// SourceFactory builds file-source connectors from ingest
// configuration. The built-in source types are registered at
// construction; additional types can be registered afterwards.
type SourceFactory struct {
	mu       sync.RWMutex
	builders map[domain.SourceType]driven.SourceBuilder
}

// NewSourceFactory creates a factory with the built-in connectors
// registered.
func NewSourceFactory() *SourceFactory {
	f := &SourceFactory{
		builders: make(map[domain.SourceType]driven.SourceBuilder),
	}
	f.Register(domain.SourceTypeFilesystem, buildFilesystemSource)
	f.Register(domain.SourceTypeGitHub, buildGitHubSource)
	f.Register(domain.SourceTypeNotion, buildNotionSource)
	return f
}

// Create returns a FileSource for the given type.
func (f *SourceFactory) Create(ctx context.Context, sourceType domain.SourceType, config map[string]string) (driven.FileSource, error) {
	f.mu.RLock()
	builder, ok := f.builders[sourceType]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, sourceType)
	}

	source, err := builder(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("build %s source: %w", sourceType, err)
	}
	return source, nil
}

// Register adds a source builder for the given type.
func (f *SourceFactory) Register(sourceType domain.SourceType, builder driven.SourceBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[sourceType] = builder
}

// SupportedTypes returns all registered source types, sorted.
func (f *SourceFactory) SupportedTypes() []domain.SourceType {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]domain.SourceType, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func buildFilesystemSource(_ context.Context, config map[string]string) (driven.FileSource, error) {
	root := config["path"]
	if root == "" {
		return nil, domain.NewConfigError("path", "not set")
	}

	sourceID := config["source"]
	if sourceID == "" {
		sourceID = DefaultFilesystemSourceID
	}

	var opts []filesystem.Option
	if exclude := config["exclude"]; exclude != "" {
		opts = append(opts, filesystem.WithExcludes(splitList(exclude)...))
	}
	return filesystem.New(sourceID, root, opts...), nil
}

func buildGitHubSource(_ context.Context, config map[string]string) (driven.FileSource, error) {
	repo := config["repo"]
	if repo == "" {
		return nil, domain.NewConfigError("repo", "not set")
	}
	owner, name, err := github.ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	var opts []github.Option
	if ref := config["ref"]; ref != "" {
		opts = append(opts, github.WithRef(ref))
	}
	if token := config["token"]; token != "" {
		opts = append(opts, github.WithToken(token))
	}
	return github.New(owner, name, opts...), nil
}

func buildNotionSource(_ context.Context, config map[string]string) (driven.FileSource, error) {
	pageID := config["page_id"]
	if pageID == "" {
		return nil, domain.NewConfigError("page_id", "not set")
	}
	return notion.New(pageID, config["token"]), nil
}

// splitList parses a comma-separated config value, trimming whitespace
// and dropping empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
