// Package main is the entry point for the src-to-kb binary. It wires
// the driven adapters (config, storage, remote search) and the core
// services behind the CLI command tree.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vezlo/src-to-kb/internal/adapters/driven/config/file"
	"github.com/vezlo/src-to-kb/internal/adapters/driven/remote"
	"github.com/vezlo/src-to-kb/internal/adapters/driven/storage/memory"
	"github.com/vezlo/src-to-kb/internal/adapters/driven/storage/sqlite"
	"github.com/vezlo/src-to-kb/internal/adapters/driving/cli"
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
	"github.com/vezlo/src-to-kb/internal/core/ports/driving"
	"github.com/vezlo/src-to-kb/internal/core/services"
	"github.com/vezlo/src-to-kb/internal/logger"
	"github.com/vezlo/src-to-kb/internal/postprocessors"
)

// version is set at build time via -ldflags "-X main.version=v1.2.3".
var version = ""

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cli.SetVersion(version)
	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap wires adapters and services once global flags are parsed.
// An empty dataDir means the default ~/.src-to-kb.
func bootstrap(dataDir string) error {
	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	storeDir := ""
	if dataDir != "" {
		storeDir = filepath.Join(dataDir, "data")
	}
	store, err := sqlite.NewStore(storeDir)
	if err != nil {
		return fmt.Errorf("open knowledge store: %w", err)
	}

	index := memory.NewCorpusIndex()
	entries, err := store.LoadAll(context.Background())
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}
	for _, entry := range entries {
		index.Put(entry.Document, entry.Chunks)
	}
	logger.Debug("Hydrated %d documents from %s", len(entries), store.Path())

	pipeline, err := postprocessors.NewDefaultPipeline(chunkingConfig(configStore, nil))
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	factory := services.NewSourceFactory()
	workers := configStore.GetInt("ingest.workers")
	ingestor := services.NewIngestService(index, store, pipeline, factory, workers)

	delegate, err := searchDelegate(configStore)
	if err != nil {
		return err
	}
	queries := services.NewQueryService(index, delegate)
	answers := services.NewAnswerService(queries, configStore.GetBool("remote.fallback_local"))

	cli.SetServices(cli.Services{
		Ingestor:  ingestor,
		Query:     queries,
		Answer:    answers,
		Documents: services.NewDocumentService(index),
		Config:    configStore,
		NewIngestor: func(overrides map[string]any) (driving.Ingestor, error) {
			p, err := postprocessors.NewDefaultPipeline(chunkingConfig(configStore, overrides))
			if err != nil {
				return nil, fmt.Errorf("build pipeline: %w", err)
			}
			return services.NewIngestService(index, store, p, factory, workers), nil
		},
	})
	return nil
}

// chunkingConfig assembles pipeline settings from the config store,
// with per-run overrides (chunk_size, overlap, strip_comments) taking
// precedence.
func chunkingConfig(cfg driven.ConfigStore, overrides map[string]any) map[string]any {
	chunking := map[string]any{}
	if size := cfg.GetInt("chunking.size"); size > 0 {
		chunking["chunk_size"] = size
	}
	if _, ok := cfg.Get("chunking.overlap"); ok {
		chunking["overlap"] = cfg.GetInt("chunking.overlap")
	}
	if _, ok := cfg.Get("chunking.strip_comments"); ok {
		chunking["strip_comments"] = cfg.GetBool("chunking.strip_comments")
	}
	for k, v := range overrides {
		chunking[k] = v
	}
	return chunking
}

// searchDelegate builds the remote search client when an endpoint is
// configured. Without one, remote searches report the delegate as
// unavailable.
func searchDelegate(cfg driven.ConfigStore) (driven.SearchDelegate, error) {
	endpoint := cfg.GetString("remote.endpoint")
	if endpoint == "" {
		return nil, nil
	}

	// Unset and zero differ here: retries = 0 disables retrying.
	retries := -1
	if _, ok := cfg.Get("remote.retries"); ok {
		retries = cfg.GetInt("remote.retries")
	}

	client, err := remote.NewClient(remote.Config{
		Endpoint:   endpoint,
		APIKey:     cfg.GetString("remote.api_key"),
		Timeout:    time.Duration(cfg.GetInt("remote.timeout_seconds")) * time.Second,
		Retries:    retries,
		RetryDelay: time.Duration(cfg.GetFloat("remote.retry_delay_ms") * float64(time.Millisecond)),
	})
	if err != nil {
		return nil, fmt.Errorf("configure remote search: %w", err)
	}
	return client, nil
}
