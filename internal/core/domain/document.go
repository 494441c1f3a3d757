package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentType is a coarse classification of an ingested file.
type DocumentType string

const (
	// DocumentTypeCode is program source (e.g. .go, .ts, .py).
	DocumentTypeCode DocumentType = "code"
	// DocumentTypeText is prose (markdown, plain text).
	DocumentTypeText DocumentType = "text"
	// DocumentTypeConfig is configuration (json, yaml, toml, env).
	DocumentTypeConfig DocumentType = "config"
	// DocumentTypeWeb is web markup and styling (html, css).
	DocumentTypeWeb DocumentType = "web"
	// DocumentTypeDocument is rich document formats (pdf, docx).
	DocumentTypeDocument DocumentType = "document"
	// DocumentTypeOther is anything not classified above.
	DocumentTypeOther DocumentType = "other"
)

// IsValid returns true if the document type is a known value.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeCode, DocumentTypeText, DocumentTypeConfig,
		DocumentTypeWeb, DocumentTypeDocument, DocumentTypeOther:
		return true
	}
	return false
}

// String returns the string representation of the document type.
func (t DocumentType) String() string {
	return string(t)
}

// Document represents an ingested file with metadata.
// Content is the normalized text the chunker consumed; documents are
// immutable after ingestion and owned by the corpus index.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceID names the source that produced this document.
	SourceID string

	// RelativePath is the path of the file relative to its source root.
	RelativePath string

	// Size is the content size in bytes.
	Size int64

	// Checksum is the hex-encoded SHA-256 of the normalized content.
	Checksum string

	// Language is the detected language label (e.g. "go", "typescript").
	Language string

	// Type is the coarse classification of the file.
	Type DocumentType

	// LineCount is the number of lines in the normalized content.
	LineCount int

	// Content is the full normalized text before chunking.
	Content string

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// NewDocumentID derives the document identifier from its source and
// relative path. The ID is a deterministic UUID so re-ingesting the
// same file replaces its prior corpus entry.
func NewDocumentID(sourceID, relativePath string) string {
	name := fmt.Sprintf("src-to-kb://%s/%s", sourceID, relativePath)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// Chunk represents a line-aligned searchable unit within a document.
// Chunks are produced once at ingestion and never mutated.
type Chunk struct {
	// ID is "<documentID>_chunk_<index>".
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Index is the ordinal position within the document, contiguous from 0.
	Index int

	// Content is the text of this chunk (lines joined with "\n").
	Content string

	// StartLine is the first line covered, 0-based inclusive.
	StartLine int

	// EndLine is the last line covered, 0-based inclusive.
	EndLine int

	// Size is the character count as accumulated by the chunker,
	// including line separators.
	Size int
}

// NewChunkID builds the canonical chunk identifier for a document and
// chunk index.
func NewChunkID(documentID string, index int) string {
	return fmt.Sprintf("%s_chunk_%d", documentID, index)
}

// Lines returns the inclusive line range covered by the chunk.
func (c Chunk) Lines() LineRange {
	return LineRange{Start: c.StartLine, End: c.EndLine}
}

// LineRange is an inclusive, 0-based span of lines within a document.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// String renders the range as "start-end" for display.
func (r LineRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}
