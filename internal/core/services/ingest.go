package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
	"github.com/vezlo/src-to-kb/internal/core/ports/driving"
	"github.com/vezlo/src-to-kb/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService turns source files into indexed documents. Files are
// processed concurrently on a worker pool; the corpus index serializes
// same-ID writes, so concurrent ingestion is safe.
// The store is optional - if nil, documents live only in memory.
type IngestService struct {
	index    driven.CorpusIndex
	store    driven.KnowledgeStore
	pipeline driven.PostProcessorPipeline
	factory  driven.SourceFactory
	workers  int
}

// NewIngestService creates a new ingest service. A non-positive
// workers count defaults to the number of CPUs.
func NewIngestService(
	index driven.CorpusIndex,
	store driven.KnowledgeStore,
	pipeline driven.PostProcessorPipeline,
	factory driven.SourceFactory,
	workers int,
) *IngestService {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &IngestService{
		index:    index,
		store:    store,
		pipeline: pipeline,
		factory:  factory,
		workers:  workers,
	}
}

// Ingest scans the requested source and indexes every file.
func (s *IngestService) Ingest(ctx context.Context, req driving.IngestRequest) (driving.IngestStats, error) {
	source, err := s.factory.Create(ctx, req.SourceType, req.Config)
	if err != nil {
		return driving.IngestStats{}, fmt.Errorf("create source: %w", err)
	}
	defer source.Close()

	return s.IngestSource(ctx, source, req)
}

// IngestSource indexes every file the source streams. Per-file
// failures are counted and reported through the progress callback; a
// scan that delivers nothing but errors fails as a whole.
func (s *IngestService) IngestSource(ctx context.Context, source driven.FileSource, req driving.IngestRequest) (driving.IngestStats, error) {
	started := time.Now()

	if err := source.Validate(ctx); err != nil {
		return driving.IngestStats{}, fmt.Errorf("validate source: %w", err)
	}

	sourceID := req.SourceID
	if sourceID == "" {
		sourceID = source.ID()
	}

	logger.Section("Ingest")
	logger.Info("Ingesting %s with %d workers", sourceID, s.workers)

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return driving.IngestStats{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	run := &ingestRun{progress: req.Progress}
	files, errs := source.Scan(ctx)

	var wg sync.WaitGroup
	var firstErr error

	for files != nil || errs != nil {
		select {
		case <-ctx.Done():
			wg.Wait()
			return run.stats(started), ctx.Err()

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if firstErr == nil {
				firstErr = err
			}
			run.fail(driving.StageScan, "", err)

		case file, ok := <-files:
			if !ok {
				files = nil
				continue
			}
			run.report(driving.ProgressEvent{Stage: driving.StageScan, Path: file.RelativePath})

			wg.Add(1)
			f := file
			if err := pool.Submit(func() {
				defer wg.Done()
				s.processFile(ctx, f, sourceID, run)
			}); err != nil {
				wg.Done()
				run.fail(driving.StageChunk, f.RelativePath, err)
			}
		}
	}
	wg.Wait()

	stats := run.stats(started)
	if stats.Documents == 0 && firstErr != nil {
		return stats, fmt.Errorf("scan: %w", firstErr)
	}

	logger.Info("Ingested %d documents (%d chunks, %d failures) in %s",
		stats.Documents, stats.Chunks, stats.Failures, stats.Elapsed.Round(time.Millisecond))
	return stats, nil
}

// Watch follows change events from the source until the context ends.
func (s *IngestService) Watch(ctx context.Context, req driving.IngestRequest) error {
	source, err := s.factory.Create(ctx, req.SourceType, req.Config)
	if err != nil {
		return fmt.Errorf("create source: %w", err)
	}
	defer source.Close()

	if !source.Capabilities().SupportsWatch {
		return domain.ErrWatchUnsupported
	}

	sourceID := req.SourceID
	if sourceID == "" {
		sourceID = source.ID()
	}

	changes, err := source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch source: %w", err)
	}

	logger.Info("Watching %s for changes", sourceID)
	run := &ingestRun{progress: req.Progress}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			s.applyChange(ctx, change, sourceID, run)
		}
	}
}

// Remove drops a document from the corpus and store.
func (s *IngestService) Remove(ctx context.Context, documentID string) error {
	if !s.index.Remove(documentID) {
		return fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	if s.store != nil {
		if err := s.store.DeleteDocument(ctx, documentID); err != nil {
			return fmt.Errorf("delete document %s: %w", documentID, err)
		}
	}
	logger.Debug("Removed document %s", documentID)
	return nil
}

// IngestFile indexes a single file under the given source identity.
// The returned document carries the normalized content the chunks were
// cut from.
func (s *IngestService) IngestFile(ctx context.Context, file domain.SourceFile, sourceID string) (domain.Document, error) {
	doc, chunks, err := s.buildDocument(ctx, file, sourceID)
	if err != nil {
		return domain.Document{}, err
	}
	if err := s.writeEntry(ctx, doc, chunks); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

// processFile runs one file through the pipeline on a pool worker,
// attributing failures to the stage they occurred in.
func (s *IngestService) processFile(ctx context.Context, file domain.SourceFile, sourceID string, run *ingestRun) {
	doc, chunks, err := s.buildDocument(ctx, file, sourceID)
	if err != nil {
		logger.Warn("Failed to chunk %s: %v", file.RelativePath, err)
		run.fail(driving.StageChunk, file.RelativePath, err)
		return
	}

	if err := s.writeEntry(ctx, doc, chunks); err != nil {
		logger.Warn("Failed to index %s: %v", file.RelativePath, err)
		run.fail(driving.StageIndex, file.RelativePath, err)
		return
	}

	run.indexed(file.RelativePath, len(chunks))
	logger.Debug("Indexed %s: %d chunks, %d lines", doc.RelativePath, len(chunks), doc.LineCount)
}

// buildDocument assembles the document and runs the post-processor
// pipeline. Checksum and line count describe the normalized content
// the pipeline leaves behind, not the raw source bytes.
func (s *IngestService) buildDocument(ctx context.Context, file domain.SourceFile, sourceID string) (domain.Document, []domain.Chunk, error) {
	doc := domain.Document{
		ID:           domain.NewDocumentID(sourceID, file.RelativePath),
		SourceID:     sourceID,
		RelativePath: file.RelativePath,
		Size:         file.Size,
		Language:     file.Language,
		Type:         file.Type,
		Content:      file.Content,
		CreatedAt:    time.Now().UTC(),
	}

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return domain.Document{}, nil, fmt.Errorf("process %s: %w", file.RelativePath, err)
	}

	sum := sha256.Sum256([]byte(doc.Content))
	doc.Checksum = hex.EncodeToString(sum[:])
	doc.LineCount = lineCount(doc.Content)
	return doc, chunks, nil
}

// writeEntry stores the document in the corpus index and, when
// configured, the knowledge store.
func (s *IngestService) writeEntry(ctx context.Context, doc domain.Document, chunks []domain.Chunk) error {
	s.index.Put(doc, chunks)

	if s.store == nil {
		return nil
	}
	if err := s.store.SaveDocument(ctx, &doc); err != nil {
		return fmt.Errorf("save document %s: %w", doc.RelativePath, err)
	}
	if err := s.store.SaveChunks(ctx, chunks); err != nil {
		return fmt.Errorf("save chunks %s: %w", doc.RelativePath, err)
	}
	return nil
}

// applyChange re-indexes or drops a document for one watch event.
func (s *IngestService) applyChange(ctx context.Context, change driven.FileChange, sourceID string, run *ingestRun) {
	switch change.Op {
	case driven.ChangeUpsert:
		if change.File == nil {
			return
		}
		s.processFile(ctx, *change.File, sourceID, run)

	case driven.ChangeRemove:
		id := domain.NewDocumentID(sourceID, change.Path)
		err := s.Remove(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Failed to remove %s: %v", change.Path, err)
			run.fail(driving.StageIndex, change.Path, err)
			return
		}
		run.report(driving.ProgressEvent{Stage: driving.StageIndex, Path: change.Path})
	}
}

// lineCount counts lines the way the chunker does: split on newlines,
// with empty content holding zero lines.
func lineCount(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Split(content, "\n"))
}

// ingestRun accumulates stats for one ingestion and fans progress out
// to the caller. Safe for use from multiple pool workers.
type ingestRun struct {
	progress driving.ProgressFunc

	mu        sync.Mutex
	documents int
	chunks    int
	failures  int
}

func (r *ingestRun) report(ev driving.ProgressEvent) {
	if r.progress != nil {
		r.progress(ev)
	}
}

func (r *ingestRun) fail(stage driving.IngestStage, path string, err error) {
	r.mu.Lock()
	r.failures++
	r.mu.Unlock()
	r.report(driving.ProgressEvent{Stage: stage, Path: path, Err: err})
}

func (r *ingestRun) indexed(path string, chunks int) {
	r.mu.Lock()
	r.documents++
	r.chunks += chunks
	r.mu.Unlock()
	r.report(driving.ProgressEvent{Stage: driving.StageIndex, Path: path, Chunks: chunks})
}

func (r *ingestRun) stats(started time.Time) driving.IngestStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return driving.IngestStats{
		Documents: r.documents,
		Chunks:    r.chunks,
		Failures:  r.failures,
		Elapsed:   time.Since(started),
	}
}
