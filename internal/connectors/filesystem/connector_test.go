package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
)

// collectScan drains both scan channels and returns what arrived.
func collectScan(t *testing.T, c *Connector) ([]domain.SourceFile, []error) {
	t.Helper()

	filesCh, errsCh := c.Scan(context.Background())

	var files []domain.SourceFile
	var errs []error
	for filesCh != nil || errsCh != nil {
		select {
		case f, ok := <-filesCh:
			if !ok {
				filesCh = nil
				continue
			}
			files = append(files, f)
		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			errs = append(errs, err)
		case <-time.After(5 * time.Second):
			t.Fatal("timeout draining scan channels")
		}
	}
	return files, errs
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew(t *testing.T) {
	t.Run("applies default excludes", func(t *testing.T) {
		c := New("local", "/tmp/project")

		require.NotNil(t, c)
		assert.Equal(t, "local", c.sourceID)
		assert.Equal(t, "/tmp/project", c.rootPath)
		assert.Equal(t, DefaultExcludes, c.excludes)
	})

	t.Run("WithExcludes appends to defaults", func(t *testing.T) {
		c := New("local", "/tmp/project", WithExcludes("*.test.js", "docs/**"))

		assert.Contains(t, c.excludes, "node_modules")
		assert.Contains(t, c.excludes, "*.test.js")
		assert.Contains(t, c.excludes, "docs/**")
	})
}

func TestConnector_Identity(t *testing.T) {
	c := New("my-project", "/tmp/project")

	assert.Equal(t, domain.SourceTypeFilesystem, c.Type())
	assert.Equal(t, "my-project", c.ID())
	assert.True(t, c.Capabilities().SupportsWatch)
}

func TestConnector_Validate(t *testing.T) {
	t.Run("accepts existing directory", func(t *testing.T) {
		c := New("local", t.TempDir())
		assert.NoError(t, c.Validate(context.Background()))
	})

	t.Run("rejects missing path", func(t *testing.T) {
		c := New("local", "/non/existent/path")
		err := c.Validate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("rejects a file root", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "file.txt", "content")

		c := New("local", filepath.Join(dir, "file.txt"))
		err := c.Validate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})
}

func TestConnector_Scan(t *testing.T) {
	t.Run("streams files with detected kinds", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "main.go", "package main")
		writeFile(t, dir, "README.md", "# Readme")

		files, errs := collectScan(t, New("local", dir))

		require.Empty(t, errs)
		require.Len(t, files, 2)

		byPath := make(map[string]domain.SourceFile)
		for _, f := range files {
			byPath[f.RelativePath] = f
		}

		goFile := byPath["main.go"]
		assert.Equal(t, "package main", goFile.Content)
		assert.Equal(t, int64(len("package main")), goFile.Size)
		assert.Equal(t, "Go", goFile.Language)
		assert.Equal(t, domain.DocumentTypeCode, goFile.Type)

		mdFile := byPath["README.md"]
		assert.Equal(t, "Markdown", mdFile.Language)
		assert.Equal(t, domain.DocumentTypeText, mdFile.Type)
	})

	t.Run("uses slash-separated relative paths", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, filepath.Join("src", "auth", "login.js"), "login()")

		files, _ := collectScan(t, New("local", dir))

		require.Len(t, files, 1)
		assert.Equal(t, "src/auth/login.js", files[0].RelativePath)
	})

	t.Run("skips excluded directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "app.js", "app")
		writeFile(t, dir, filepath.Join("node_modules", "dep", "index.js"), "dep")
		writeFile(t, dir, filepath.Join("dist", "bundle.js"), "bundle")

		files, _ := collectScan(t, New("local", dir))

		require.Len(t, files, 1)
		assert.Equal(t, "app.js", files[0].RelativePath)
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "visible.txt", "visible")
		writeFile(t, dir, ".env", "SECRET=1")
		writeFile(t, dir, filepath.Join(".git", "config"), "[core]")

		files, _ := collectScan(t, New("local", dir))

		require.Len(t, files, 1)
		assert.Equal(t, "visible.txt", files[0].RelativePath)
	})

	t.Run("skips binary extensions", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "logo.png", "\x89PNG")
		writeFile(t, dir, "main.go", "package main")

		files, _ := collectScan(t, New("local", dir))

		require.Len(t, files, 1)
		assert.Equal(t, "main.go", files[0].RelativePath)
	})

	t.Run("applies custom glob excludes", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, filepath.Join("src", "auth.js"), "auth")
		writeFile(t, dir, filepath.Join("src", "auth.test.js"), "test")
		writeFile(t, dir, filepath.Join("docs", "guide.md"), "guide")

		c := New("local", dir, WithExcludes("*.test.js", "docs/**"))
		files, _ := collectScan(t, c)

		require.Len(t, files, 1)
		assert.Equal(t, "src/auth.js", files[0].RelativePath)
	})

	t.Run("reports missing root on the error channel", func(t *testing.T) {
		files, errs := collectScan(t, New("local", "/non/existent/path"))

		assert.Empty(t, files)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "does not exist")
	})

	t.Run("closes channels on cancelled context", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "file.txt", "content")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		filesCh, errsCh := New("local", dir).Scan(ctx)
		for range filesCh {
		}
		for range errsCh {
		}
	})

	t.Run("empty directory yields no files", func(t *testing.T) {
		files, errs := collectScan(t, New("local", t.TempDir()))
		assert.Empty(t, files)
		assert.Empty(t, errs)
	})
}

func TestConnector_Watch(t *testing.T) {
	t.Run("emits upsert for created file", func(t *testing.T) {
		dir := t.TempDir()
		c := New("local", dir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer c.Close()

		changes, err := c.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = os.WriteFile(filepath.Join(dir, "new.go"), []byte("package new"), 0644)
		}()

		select {
		case change := <-changes:
			assert.Equal(t, driven.ChangeUpsert, change.Op)
			assert.Equal(t, "new.go", change.Path)
			require.NotNil(t, change.File)
			assert.Equal(t, "package new", change.File.Content)
			assert.Equal(t, "Go", change.File.Language)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for create event")
		}
	})

	t.Run("emits remove for deleted file", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "doomed.txt")
		require.NoError(t, os.WriteFile(target, []byte("bye"), 0644))

		c := New("local", dir)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer c.Close()

		changes, err := c.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			_ = os.Remove(target)
		}()

		for {
			select {
			case change := <-changes:
				if change.Op == driven.ChangeRemove {
					assert.Equal(t, "doomed.txt", change.Path)
					assert.Nil(t, change.File)
					return
				}
			case <-time.After(2 * time.Second):
				t.Fatal("timeout waiting for remove event")
			}
		}
	})

	t.Run("channel closes on cancel", func(t *testing.T) {
		c := New("local", t.TempDir())
		ctx, cancel := context.WithCancel(context.Background())
		defer c.Close()

		changes, err := c.Watch(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok, "channel should close after cancel")
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for channel close")
		}
	})
}

func TestConnector_Close(t *testing.T) {
	c := New("local", t.TempDir())

	// Close before Watch is a no-op.
	assert.NoError(t, c.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, err := c.Watch(ctx)
	require.NoError(t, err)

	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name       string
		setupFile  bool
		setupDir   bool
		fileName   string
		op         fsnotify.Op
		wantChange bool
		wantOp     driven.ChangeOp
	}{
		{
			name:       "create file",
			setupFile:  true,
			fileName:   "created.txt",
			op:         fsnotify.Create,
			wantChange: true,
			wantOp:     driven.ChangeUpsert,
		},
		{
			name:       "write file",
			setupFile:  true,
			fileName:   "written.txt",
			op:         fsnotify.Write,
			wantChange: true,
			wantOp:     driven.ChangeUpsert,
		},
		{
			name:       "remove file",
			fileName:   "removed.txt",
			op:         fsnotify.Remove,
			wantChange: true,
			wantOp:     driven.ChangeRemove,
		},
		{
			name:       "rename treated as remove",
			fileName:   "renamed.txt",
			op:         fsnotify.Rename,
			wantChange: true,
			wantOp:     driven.ChangeRemove,
		},
		{
			name:       "chmod ignored",
			setupFile:  true,
			fileName:   "chmodded.txt",
			op:         fsnotify.Chmod,
			wantChange: false,
		},
		{
			name:       "directory create ignored",
			setupDir:   true,
			fileName:   "subdir",
			op:         fsnotify.Create,
			wantChange: false,
		},
		{
			name:       "hidden file ignored",
			setupFile:  true,
			fileName:   ".hidden.txt",
			op:         fsnotify.Write,
			wantChange: false,
		},
		{
			name:       "excluded path ignored",
			setupFile:  true,
			fileName:   filepath.Join("node_modules", "dep.js"),
			op:         fsnotify.Create,
			wantChange: false,
		},
		{
			name:       "binary extension ignored",
			setupFile:  true,
			fileName:   "image.png",
			op:         fsnotify.Create,
			wantChange: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			eventPath := filepath.Join(dir, tt.fileName)

			if tt.setupDir {
				require.NoError(t, os.MkdirAll(eventPath, 0755))
			} else if tt.setupFile {
				require.NoError(t, os.MkdirAll(filepath.Dir(eventPath), 0755))
				require.NoError(t, os.WriteFile(eventPath, []byte("content"), 0644))
			}

			c := New("local", dir)
			change := c.handleFsEvent(fsnotify.Event{Name: eventPath, Op: tt.op})

			if !tt.wantChange {
				assert.Nil(t, change)
				return
			}

			require.NotNil(t, change)
			assert.Equal(t, tt.wantOp, change.Op)
			assert.Equal(t, filepath.ToSlash(tt.fileName), change.Path)
			if tt.wantOp == driven.ChangeUpsert {
				require.NotNil(t, change.File)
				assert.Equal(t, "content", change.File.Content)
			} else {
				assert.Nil(t, change.File)
			}
		})
	}

	t.Run("combined write and chmod", func(t *testing.T) {
		dir := t.TempDir()
		eventPath := filepath.Join(dir, "combo.txt")
		require.NoError(t, os.WriteFile(eventPath, []byte("content"), 0644))

		c := New("local", dir)
		change := c.handleFsEvent(fsnotify.Event{Name: eventPath, Op: fsnotify.Write | fsnotify.Chmod})

		require.NotNil(t, change)
		assert.Equal(t, driven.ChangeUpsert, change.Op)
	})
}

func TestExcluded(t *testing.T) {
	c := New("local", "/tmp", WithExcludes("*.test.js", "docs/**"))

	tests := []struct {
		path string
		want bool
	}{
		{"node_modules/dep/index.js", true},
		{"src/node_modules/dep.js", true},
		{"vendor/lib.go", true},
		{"src/auth.test.js", true},
		{"docs/guide.md", true},
		{"src/auth.js", false},
		{"main.go", false},
		{"documents/file.md", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, c.excluded(tt.path), "path %s", tt.path)
	}
}
