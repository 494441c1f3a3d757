package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vezlo/src-to-kb/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"keywords to search the knowledge base for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Mode  string `json:"mode,omitempty" jsonschema:"audience mode: enduser, developer or copilot"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single search result.
type SearchResultOutput struct {
	DocumentID string   `json:"document_id"`
	Path       string   `json:"path"`
	Language   string   `json:"language,omitempty"`
	Score      int      `json:"score"`
	Lines      string   `json:"lines"`
	Snippets   []string `json:"snippets,omitempty"`
	Content    string   `json:"content,omitempty"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"natural-language question about the indexed code"`
	Mode     string `json:"mode,omitempty" jsonschema:"audience mode: enduser, developer or copilot"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer     string           `json:"answer"`
	Confidence float64          `json:"confidence"`
	TopFiles   []string         `json:"top_files,omitempty"`
	Evidence   []EvidenceOutput `json:"evidence,omitempty"`
}

// EvidenceOutput points at the chunk backing part of an answer.
type EvidenceOutput struct {
	File    string `json:"file"`
	Lines   string `json:"lines"`
	Context string `json:"context,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the indexed codebase by keyword",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about the indexed codebase and get a grounded answer",
	}, s.handleAsk)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		Limit: input.Limit,
		Mode:  input.Mode,
	}

	results, err := s.ports.Query.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = SearchResultOutput{
			DocumentID: results[i].DocumentID,
			Path:       results[i].DocumentPath,
			Language:   results[i].DocumentLanguage,
			Score:      results[i].Score,
			Lines:      results[i].Lines.String(),
			Snippets:   results[i].Snippets,
			Content:    results[i].FullContent,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	opts := domain.SearchOptions{Mode: input.Mode}

	answer, err := s.ports.Answer.Ask(ctx, input.Question, opts)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		Answer:     answer.Text,
		Confidence: answer.Confidence,
		TopFiles:   answer.TopFiles,
		Evidence:   make([]EvidenceOutput, len(answer.Evidence)),
	}

	for i, ev := range answer.Evidence {
		output.Evidence[i] = EvidenceOutput{
			File:    ev.File,
			Lines:   ev.Lines.String(),
			Context: ev.Context,
		}
	}

	return nil, output, nil
}
