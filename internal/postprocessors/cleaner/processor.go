// Package cleaner normalizes document content before chunking:
// comment stripping, blank-line collapsing and whitespace trimming.
// Chunk boundary math always runs on the cleaned text.
package cleaner

import (
	"context"
	"regexp"
	"strings"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

var (
	blockCommentRE = regexp.MustCompile(`(?s)/\*.*?\*/`)
	lineCommentRE  = regexp.MustCompile(`//[^\n]*`)
	hashLineRE     = regexp.MustCompile(`(?m)^[ \t]*#[^\n]*$`)
	// Three or more consecutive blank lines, once lines are
	// right-trimmed, appear as four or more newlines in a row.
	blankRunRE = regexp.MustCompile(`\n{4,}`)
)

// Processor rewrites document content in place and passes chunks
// through untouched. It implements the PostProcessor interface and
// must run before the chunker.
type Processor struct {
	stripComments bool
}

// Option configures the cleaner processor.
type Option func(*Processor)

// WithStripComments toggles comment removal for code and config
// documents. Enabled by default.
func WithStripComments(strip bool) Option {
	return func(p *Processor) {
		p.stripComments = strip
	}
}

// New creates a new cleaner processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{stripComments: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "cleaner"
}

// Process normalizes the document content. Comment stripping applies
// only to code and config documents; whitespace normalization applies
// to everything.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	strip := p.stripComments &&
		(doc.Type == domain.DocumentTypeCode || doc.Type == domain.DocumentTypeConfig)
	doc.Content = Normalize(doc.Content, strip)
	return chunks, nil
}

// Normalize cleans raw text. When stripComments is set, //... line
// comments, /*...*/ block comments and lines starting with # are
// removed first. Every line is then right-trimmed, runs of three or
// more blank lines collapse to a single blank line, and the whole
// document is trimmed.
func Normalize(content string, stripComments bool) string {
	if content == "" {
		return ""
	}

	if stripComments {
		content = blockCommentRE.ReplaceAllString(content, "")
		content = lineCommentRE.ReplaceAllString(content, "")
		content = hashLineRE.ReplaceAllString(content, "")
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	content = strings.Join(lines, "\n")

	content = blankRunRE.ReplaceAllString(content, "\n\n")

	return strings.TrimSpace(content)
}
