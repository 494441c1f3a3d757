// Package domain defines the core business entities for src-to-kb.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies beyond uuid and defines the
// fundamental types:
//
//   - Document: an ingested file with metadata
//   - Chunk: a line-aligned searchable unit within a document
//   - SourceFile: raw connector output before ingestion
//   - SearchResult: a ranked chunk hit
//   - Mode: an audience profile shaping filtering and answers
//   - Answer: a synthesized response with evidence
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
package domain
