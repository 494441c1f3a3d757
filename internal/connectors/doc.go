// Package connectors provides implementations of the FileSource interface
// for various code sources. Each connector knows how to stream source files
// from a specific source type (filesystem, GitHub, Notion).
//
// The package itself holds logic shared by all connectors: mapping file
// extensions to a language name and DocumentType, and the binary-extension
// skip list.
package connectors
