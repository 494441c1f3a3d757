// Package sqlite provides the SQLite-backed KnowledgeStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The store is durability
// only: queries never touch it at request time. On startup LoadAll hydrates
// the in-memory corpus index, and ingestion writes through to both.
//
// # Schema
//
// The database schema is managed through versioned migrations embedded from
// the migrations/ directory. Insertion order is the implicit rowid: upserts
// keep the original rowid, so a re-ingested document keeps its position.
//
// # Data Location
//
// By default, the database is stored at ~/.src-to-kb/data/knowledge.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
