// Package mcp provides an MCP (Model Context Protocol) server adapter for
// src-to-kb. It lets AI assistants like Claude search the knowledge base and
// ask questions about the indexed code.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

// ErrMissingAnswerService is returned when the answer service is not provided.
var ErrMissingAnswerService = errors.New("mcp: answer service is required")
