package driven

import (
	"context"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// SourceBuilder creates a FileSource from connector-specific
// configuration (path, repo, ref, token, page id).
type SourceBuilder func(ctx context.Context, config map[string]string) (FileSource, error)

// SourceFactory creates file sources from ingest configuration.
// It maintains a registry of source types and their builders.
type SourceFactory interface {
	// Create returns a FileSource for the given type. Returns
	// domain.ErrUnsupportedType when the type is unknown and
	// *domain.ConfigError when required settings are missing.
	Create(ctx context.Context, sourceType domain.SourceType, config map[string]string) (FileSource, error)

	// Register adds a source builder for the given type.
	Register(sourceType domain.SourceType, builder SourceBuilder)

	// SupportedTypes returns all registered source types.
	SupportedTypes() []domain.SourceType
}
