// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - CorpusIndex: in-memory document + chunk index, the search surface
//   - FileSource: streams files out of a source (filesystem, github, notion)
//   - PostProcessor / PostProcessorPipeline: content cleaning and chunking
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - KnowledgeStore: durable persistence; without it the corpus is
//     rebuilt on every run
//   - SearchDelegate: remote query delegation; without it all queries
//     are answered locally
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
