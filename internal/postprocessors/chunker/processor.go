// Package chunker splits normalized document content into overlapping,
// line-aligned chunks bounded by a character budget.
package chunker

import (
	"context"
	"math"
	"strings"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// DefaultChunkSize is the default chunk budget in characters.
const DefaultChunkSize = 2000

// DefaultOverlap is the default overlap budget in characters.
const DefaultOverlap = 200

// Processor chunks document content. It implements the PostProcessor
// interface and is a thin wrapper around Split.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk budget in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap budget in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// An overlap at or above the budget would retain whole buffers.
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	return Split(doc.ID, doc.Content, p.chunkSize, p.overlap), nil
}

// Split computes the chunk set for content. The walk is line-aligned:
// lines accumulate into a buffer, each contributing len(line)+1
// characters for its removed newline, and the buffer is flushed just
// before a line would push it past the budget. On a flush, trailing
// lines worth roughly the overlap budget carry into the next buffer.
// Oversized single lines are never split mid-line. The same content
// and budgets always produce byte-identical chunks.
func Split(documentID, content string, chunkSize, overlap int) []domain.Chunk {
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")

	var (
		chunks      []domain.Chunk
		buffer      []string
		currentSize int
		startLine   int
		index       int
	)

	emit := func(endLine int) {
		chunks = append(chunks, domain.Chunk{
			ID:         domain.NewChunkID(documentID, index),
			DocumentID: documentID,
			Index:      index,
			Content:    strings.Join(buffer, "\n"),
			StartLine:  startLine,
			EndLine:    endLine,
			Size:       currentSize,
		})
		index++
	}

	for i, line := range lines {
		lineSize := len(line) + 1

		if currentSize+lineSize > chunkSize && len(buffer) > 0 {
			emit(i - 1)

			retain := retainedLines(buffer, currentSize, overlap)
			buffer = append([]string(nil), buffer[len(buffer)-retain:]...)
			currentSize = joinedLength(buffer)
			startLine = i - len(buffer)
		}

		buffer = append(buffer, line)
		currentSize += lineSize
	}

	if len(buffer) > 0 {
		emit(len(lines) - 1)
	}

	return chunks
}

// retainedLines returns how many trailing buffer lines carry over into
// the next chunk: enough lines of average size to cover the overlap
// budget. A single-line buffer retains nothing, so an oversized line
// cannot replicate itself into every following chunk.
func retainedLines(buffer []string, currentSize, overlap int) int {
	if overlap <= 0 || len(buffer) <= 1 {
		return 0
	}

	avgLineSize := float64(currentSize) / float64(len(buffer))
	overlapLines := int(math.Ceil(float64(overlap) / avgLineSize))
	if overlapLines > len(buffer) {
		overlapLines = len(buffer)
	}
	return overlapLines
}

// joinedLength is len(strings.Join(lines, "\n")) without building the string.
func joinedLength(lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	total := len(lines) - 1
	for _, l := range lines {
		total += len(l)
	}
	return total
}
