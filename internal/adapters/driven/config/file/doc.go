// Package file provides the TOML-backed ConfigStore.
//
// Configuration lives at ~/.src-to-kb/config.toml. Nested TOML tables are
// flattened to dot-notation keys on load, so [chunking] size = 2000 is read
// as chunking.size.
package file
