package services

import (
	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/logger"
)

// FilterByMode applies a mode's audience policy to ranked results:
// results matching an exclude pattern are dropped, then results the
// mode prioritizes are moved ahead of the rest. Both groups keep their
// incoming relative order, so score ranking survives the partition.
func FilterByMode(results []domain.SearchResult, mode domain.Mode) []domain.SearchResult {
	var prioritized, rest []domain.SearchResult
	dropped := 0

	for _, result := range results {
		if mode.Excludes(result.DocumentPath) {
			dropped++
			continue
		}
		if mode.Prioritizes(result.DocumentPath, result.DocumentLanguage) {
			prioritized = append(prioritized, result)
		} else {
			rest = append(rest, result)
		}
	}

	if dropped > 0 {
		logger.Debug("Mode %s dropped %d results", mode.Key, dropped)
	}
	return append(prioritized, rest...)
}
