// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The query engine, mode filter and answer synthesizer are pure
// functions over the corpus index; the ingest service owns the only
// concurrency in the core, a worker pool feeding the index.
package services
