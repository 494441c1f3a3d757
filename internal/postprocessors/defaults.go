package postprocessors

import (
	"github.com/vezlo/src-to-kb/internal/core/ports/driven"
	"github.com/vezlo/src-to-kb/internal/postprocessors/chunker"
	"github.com/vezlo/src-to-kb/internal/postprocessors/cleaner"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("cleaner", buildCleaner)
	r.Register("chunker", buildChunker)
}

// NewDefaultPipeline builds the standard cleaner + chunker pipeline.
// Supported config keys:
//   - strip_comments (bool): remove comments from code/config (default: true)
//   - chunk_size (int): characters per chunk (default: 2000)
//   - overlap (int): overlapping characters between chunks (default: 200)
func NewDefaultPipeline(cfg map[string]any) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)

	clean, err := r.Build("cleaner", cfg)
	if err != nil {
		return nil, err
	}
	chunk, err := r.Build("chunker", cfg)
	if err != nil {
		return nil, err
	}
	return NewPipeline(clean, chunk), nil
}

// buildCleaner creates a cleaner processor from generic config.
func buildCleaner(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []cleaner.Option

	if cfg != nil {
		if strip, ok := getBoolFromConfig(cfg, "strip_comments"); ok {
			opts = append(opts, cleaner.WithStripComments(strip))
		}
	}

	return cleaner.New(opts...), nil
}

// buildChunker creates a chunker processor from generic config.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		// Overlap zero is a valid setting, so only apply when present.
		if _, present := cfg["overlap"]; present {
			if overlap := getIntFromConfig(cfg, "overlap"); overlap >= 0 {
				opts = append(opts, chunker.WithOverlap(overlap))
			}
		}
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// getBoolFromConfig safely extracts a bool from generic config map.
func getBoolFromConfig(cfg map[string]any, key string) (bool, bool) {
	val, ok := cfg[key]
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}
