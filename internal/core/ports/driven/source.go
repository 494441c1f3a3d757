package driven

import (
	"context"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// FileSource streams files out of a data source.
// Each source type (filesystem, github, notion) implements this interface.
type FileSource interface {
	// Type returns the source type identifier.
	Type() domain.SourceType

	// ID returns the source identity used to derive document IDs
	// (e.g. "local", "github:owner/repo").
	ID() string

	// Capabilities returns what this source supports.
	Capabilities() domain.SourceCapabilities

	// Validate checks the source is reachable and readable before a
	// scan starts. For API sources this makes a lightweight call; for
	// filesystem it checks the root exists.
	Validate(ctx context.Context) error

	// Scan streams every file in the source. The files channel closes
	// when the scan completes; per-file failures arrive on the error
	// channel without stopping the scan.
	Scan(ctx context.Context) (<-chan domain.SourceFile, <-chan error)

	// Watch streams change events after the initial scan. Only
	// available when Capabilities().SupportsWatch is true; otherwise
	// returns domain.ErrWatchUnsupported.
	Watch(ctx context.Context) (<-chan FileChange, error)

	// Close releases resources.
	Close() error
}

// ChangeOp describes what happened to a watched file.
type ChangeOp string

const (
	// ChangeUpsert is a created or modified file.
	ChangeUpsert ChangeOp = "upsert"
	// ChangeRemove is a deleted file.
	ChangeRemove ChangeOp = "remove"
)

// FileChange is one watch event.
type FileChange struct {
	// Op describes the change.
	Op ChangeOp

	// Path is the relative path affected.
	Path string

	// File carries the new content for upserts, nil for removals.
	File *domain.SourceFile
}
