// Package filesystem streams source files from a local directory tree.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/vezlo/src-to-kb/internal/connectors"
	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
	"github.com/vezlo/src-to-kb/internal/logger"
)

// Ensure Connector implements the interface.
var _ driven.FileSource = (*Connector)(nil)

// DefaultExcludes are path patterns skipped on every scan, on top of
// hidden files and binary extensions.
var DefaultExcludes = []string{
	"node_modules",
	"dist",
	"build",
	"vendor",
	"coverage",
	"target",
	"__pycache__",
}

// maxFileSize caps a single ingested file at 10 MB.
const maxFileSize = 10 * 1024 * 1024

// Connector streams files from a local directory tree.
type Connector struct {
	sourceID string
	rootPath string
	excludes []string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
}

// Option configures a Connector.
type Option func(*Connector)

// WithExcludes appends exclusion patterns to the defaults. A pattern
// without a separator matches any path segment (gitignore style); a
// pattern with a separator is a doublestar glob over the relative path.
func WithExcludes(patterns ...string) Option {
	return func(c *Connector) {
		c.excludes = append(c.excludes, patterns...)
	}
}

// New creates a filesystem connector rooted at rootPath. Documents
// derive their IDs from sourceID, so re-scanning the same source
// replaces rather than duplicates.
func New(sourceID, rootPath string, opts ...Option) *Connector {
	c := &Connector{
		sourceID: sourceID,
		rootPath: rootPath,
		excludes: append([]string(nil), DefaultExcludes...),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Type returns the source type identifier.
func (c *Connector) Type() domain.SourceType {
	return domain.SourceTypeFilesystem
}

// ID returns the source identity.
func (c *Connector) ID() string {
	return c.sourceID
}

// Capabilities returns what this source supports.
func (c *Connector) Capabilities() domain.SourceCapabilities {
	return domain.SourceCapabilities{
		SupportsWatch: true,
	}
}

// Validate checks the root path exists and is a directory.
func (c *Connector) Validate(_ context.Context) error {
	info, err := os.Stat(c.rootPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("root path %s does not exist", c.rootPath)
	}
	if err != nil {
		return fmt.Errorf("checking root path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root path %s is not a directory", c.rootPath)
	}
	return nil
}

// Scan walks the tree and streams every ingestible file. The files
// channel closes when the walk completes; per-file read failures arrive
// on the error channel without stopping the walk.
func (c *Connector) Scan(ctx context.Context) (<-chan domain.SourceFile, <-chan error) {
	files := make(chan domain.SourceFile)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		if err := c.Validate(ctx); err != nil {
			errs <- err
			return
		}

		walkErr := filepath.WalkDir(c.rootPath, func(path string, entry fs.DirEntry, err error) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err != nil {
				return err
			}

			rel, err := filepath.Rel(c.rootPath, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if entry.IsDir() {
				if rel != "." && (connectors.IsHiddenPath(rel) || c.excluded(rel)) {
					return fs.SkipDir
				}
				return nil
			}

			if connectors.IsHiddenPath(rel) || c.excluded(rel) || connectors.IsBinaryPath(rel) {
				return nil
			}

			info, err := entry.Info()
			if err != nil {
				c.reportErr(ctx, errs, fmt.Errorf("stat %s: %w", rel, err))
				return nil
			}
			if info.Size() > maxFileSize {
				logger.Debug("Skipping oversized file %s (%d bytes)", rel, info.Size())
				return nil
			}

			file, err := c.readFile(path, rel)
			if err != nil {
				c.reportErr(ctx, errs, fmt.Errorf("reading %s: %w", rel, err))
				return nil
			}

			select {
			case files <- file:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})

		if walkErr != nil && walkErr != ctx.Err() {
			c.reportErr(ctx, errs, fmt.Errorf("walking %s: %w", c.rootPath, walkErr))
		}
	}()

	return files, errs
}

// Watch streams change events for the tree using fsnotify. Newly created
// directories are added to the watch on the fly. The channel closes when
// the context is cancelled or the connector is closed.
func (c *Connector) Watch(ctx context.Context) (<-chan driven.FileChange, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	// Watch the root and every non-excluded subdirectory.
	err = filepath.WalkDir(c.rootPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(c.rootPath, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && (connectors.IsHiddenPath(rel) || c.excluded(rel)) {
			return fs.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", c.rootPath, err)
	}

	c.mu.Lock()
	c.watcher = watcher
	c.mu.Unlock()

	changes := make(chan driven.FileChange)

	go func() {
		defer close(changes)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				// New directories need their own watch.
				if event.Op&fsnotify.Create != 0 {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
						continue
					}
				}

				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}

				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watch error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close stops any active watcher. Safe to call multiple times.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher == nil {
		return nil
	}
	err := c.watcher.Close()
	c.watcher = nil
	return err
}

// handleFsEvent maps one fsnotify event to a file change, or nil when
// the event is irrelevant (directories, excluded or hidden paths, chmod).
func (c *Connector) handleFsEvent(event fsnotify.Event) *driven.FileChange {
	rel, err := filepath.Rel(c.rootPath, event.Name)
	if err != nil {
		return nil
	}
	rel = filepath.ToSlash(rel)

	if connectors.IsHiddenPath(rel) || c.excluded(rel) || connectors.IsBinaryPath(rel) {
		return nil
	}

	switch {
	case event.Op&(fsnotify.Create|fsnotify.Write) != 0:
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() || info.Size() > maxFileSize {
			return nil
		}
		file, err := c.readFile(event.Name, rel)
		if err != nil {
			logger.Debug("Dropping change for %s: %v", rel, err)
			return nil
		}
		return &driven.FileChange{Op: driven.ChangeUpsert, Path: rel, File: &file}

	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		return &driven.FileChange{Op: driven.ChangeRemove, Path: rel}

	default:
		return nil
	}
}

// readFile loads a file into a SourceFile with detected language/type.
func (c *Connector) readFile(path, rel string) (domain.SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.SourceFile{}, err
	}

	language, docType := connectors.DetectKind(rel)
	return domain.SourceFile{
		RelativePath: rel,
		Content:      string(content),
		Size:         int64(len(content)),
		Language:     language,
		Type:         docType,
	}, nil
}

// reportErr delivers a per-file error unless the scan was cancelled.
func (c *Connector) reportErr(ctx context.Context, errs chan<- error, err error) {
	select {
	case errs <- err:
	case <-ctx.Done():
	}
}

// excluded reports whether the relative path matches any exclude
// pattern. Bare patterns match single path segments; patterns with a
// separator match the whole relative path.
func (c *Connector) excluded(relPath string) bool {
	segments := strings.Split(relPath, "/")

	for _, pattern := range c.excludes {
		if strings.Contains(pattern, "/") {
			if ok, err := doublestar.Match(pattern, relPath); err == nil && ok {
				return true
			}
			continue
		}
		for _, segment := range segments {
			if ok, err := doublestar.Match(pattern, segment); err == nil && ok {
				return true
			}
		}
	}
	return false
}
