package driving

import (
	"context"
	"time"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// IngestStage labels the pipeline step a progress event belongs to.
type IngestStage string

const (
	// StageScan is file discovery.
	StageScan IngestStage = "scan"
	// StageChunk is cleaning and chunking.
	StageChunk IngestStage = "chunk"
	// StageIndex is the corpus/store write.
	StageIndex IngestStage = "index"
)

// ProgressEvent reports one ingestion step for one file.
type ProgressEvent struct {
	// Stage is the pipeline step.
	Stage IngestStage

	// Path is the file's relative path.
	Path string

	// Chunks is the chunk count produced, set at StageIndex.
	Chunks int

	// Err is non-nil when the file failed at this stage.
	Err error
}

// ProgressFunc observes ingestion progress. Callbacks are synchronous
// and may arrive from multiple worker goroutines; implementations must
// be safe for concurrent use.
type ProgressFunc func(ProgressEvent)

// IngestRequest names a source and its connector configuration.
type IngestRequest struct {
	// SourceType selects the connector.
	SourceType domain.SourceType

	// SourceID is the identity used to derive document IDs. Empty
	// means the connector's default.
	SourceID string

	// Config carries connector-specific settings (path, repo, ref,
	// token, page id, excludes).
	Config map[string]string

	// Progress observes per-file progress. Optional.
	Progress ProgressFunc
}

// IngestStats summarizes a completed ingestion.
type IngestStats struct {
	// Documents is the number of files indexed.
	Documents int

	// Chunks is the total chunk count produced.
	Chunks int

	// Failures is the number of files that could not be ingested.
	Failures int

	// Elapsed is the wall-clock duration.
	Elapsed time.Duration
}

// Ingestor turns source files into indexed documents.
type Ingestor interface {
	// Ingest scans the requested source and indexes every file.
	// Per-file failures are counted and reported through Progress;
	// the scan itself failing returns an error.
	Ingest(ctx context.Context, req IngestRequest) (IngestStats, error)

	// Watch follows change events from the source until the context
	// ends, re-indexing changed files and dropping removed ones.
	// Returns domain.ErrWatchUnsupported for sources without watch.
	Watch(ctx context.Context, req IngestRequest) error

	// Remove drops a document from the corpus and store.
	Remove(ctx context.Context, documentID string) error
}
