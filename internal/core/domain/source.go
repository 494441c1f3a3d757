package domain

// SourceType identifies a kind of file source.
type SourceType string

const (
	// SourceTypeFilesystem reads a local directory tree.
	SourceTypeFilesystem SourceType = "filesystem"
	// SourceTypeGitHub reads a repository tree via the GitHub API.
	SourceTypeGitHub SourceType = "github"
	// SourceTypeNotion reads a page tree via the Notion API.
	SourceTypeNotion SourceType = "notion"
)

// IsValid returns true if the source type is a known value.
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeFilesystem, SourceTypeGitHub, SourceTypeNotion:
		return true
	}
	return false
}

// String returns the string representation of the source type.
func (t SourceType) String() string {
	return string(t)
}

// SourceFile is a single file as produced by a source connector,
// before ingestion turns it into a Document plus chunks.
type SourceFile struct {
	// RelativePath is the path relative to the source root
	// (or the page/blob path for remote sources).
	RelativePath string

	// Content is the raw text content.
	Content string

	// Size is the content size in bytes.
	Size int64

	// Language is the detected language label, empty if unknown.
	Language string

	// Type is the coarse classification of the file.
	Type DocumentType
}

// SourceCapabilities declares what a connector supports so callers can
// adapt without type switches.
type SourceCapabilities struct {
	// SupportsWatch is true when the connector can stream change
	// events after the initial scan.
	SupportsWatch bool
}
