package cli

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/vezlo/src-to-kb/internal/adapters/driven/storage/memory"
	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/core/ports/driving"
)

// --- Shared mocks ---

// mockIngestor implements driving.Ingestor.
type mockIngestor struct {
	stats     driving.IngestStats
	ingestErr error
	watchErr  error
	removeErr error
	gotReq    driving.IngestRequest
	watched   bool
	removed   []string
}

func (m *mockIngestor) Ingest(_ context.Context, req driving.IngestRequest) (driving.IngestStats, error) {
	m.gotReq = req
	if m.ingestErr != nil {
		return driving.IngestStats{}, m.ingestErr
	}
	if req.Progress != nil {
		for i := 0; i < m.stats.Documents; i++ {
			req.Progress(driving.ProgressEvent{
				Stage:  driving.StageIndex,
				Path:   fmt.Sprintf("file%d.go", i),
				Chunks: 1,
			})
		}
	}
	return m.stats, nil
}

func (m *mockIngestor) Watch(_ context.Context, req driving.IngestRequest) error {
	m.watched = true
	m.gotReq = req
	return m.watchErr
}

func (m *mockIngestor) Remove(_ context.Context, documentID string) error {
	if m.removeErr != nil {
		return m.removeErr
	}
	m.removed = append(m.removed, documentID)
	return nil
}

// mockQuery implements driving.QueryService.
type mockQuery struct {
	results  []domain.SearchResult
	err      error
	gotQuery string
	gotOpts  domain.SearchOptions
}

func (m *mockQuery) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.gotQuery = query
	m.gotOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

// mockAnswer implements driving.AnswerService.
type mockAnswer struct {
	answer      domain.Answer
	err         error
	gotQuestion string
	gotOpts     domain.SearchOptions
}

func (m *mockAnswer) Ask(_ context.Context, question string, opts domain.SearchOptions) (domain.Answer, error) {
	m.gotQuestion = question
	m.gotOpts = opts
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	return m.answer, nil
}

// mockDocuments implements driving.DocumentService.
type mockDocuments struct {
	docs    []domain.Document
	chunks  []domain.Chunk
	content string
	err     error
}

func (m *mockDocuments) List(_ context.Context) ([]domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.docs, nil
}

func (m *mockDocuments) Get(_ context.Context, id string) (domain.Document, []domain.Chunk, error) {
	if m.err != nil {
		return domain.Document{}, nil, m.err
	}
	for _, d := range m.docs {
		if d.ID == id {
			return d, m.chunks, nil
		}
	}
	return domain.Document{}, nil, domain.ErrNotFound
}

func (m *mockDocuments) Content(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

// --- Fixtures ---

func sampleSearchResults() []domain.SearchResult {
	return []domain.SearchResult{
		{
			DocumentID:       "doc-1",
			DocumentPath:     "src/auth/login.js",
			DocumentLanguage: "JavaScript",
			ChunkID:          "doc-1_chunk_0",
			Score:            7,
			Lines:            domain.LineRange{Start: 0, End: 24},
			Snippets:         []string{"function login(user, password) {"},
			FullContent:      "function login(user, password) {\n  return token\n}",
			Preview:          "function login(user, password) {",
		},
		{
			DocumentID:       "doc-2",
			DocumentPath:     "src/session.js",
			DocumentLanguage: "JavaScript",
			ChunkID:          "doc-2_chunk_0",
			Score:            3,
			Lines:            domain.LineRange{Start: 10, End: 35},
			FullContent:      "session store",
			Preview:          "session store",
		},
	}
}

func sampleAnswer() domain.Answer {
	return domain.Answer{
		Text:       "Authentication lives in src/auth/login.js.\nSources: src/auth/login.js",
		Confidence: 0.84,
		TopFiles:   []string{"src/auth/login.js"},
		Evidence: []domain.Evidence{
			{File: "src/auth/login.js", Lines: domain.LineRange{Start: 0, End: 24}, Context: "function login"},
		},
	}
}

func sampleDocuments() []domain.Document {
	return []domain.Document{
		{
			ID:           "doc-1",
			SourceID:     "local",
			RelativePath: "src/main.go",
			Language:     "Go",
			Type:         domain.DocumentTypeCode,
			Size:         120,
			LineCount:    12,
			Checksum:     "abc123",
		},
	}
}

// setupTestServices swaps every injected port for a mock and returns a
// cleanup that restores the originals.
func setupTestServices() func() {
	oldIngest := ingestService
	oldQuery := queryService
	oldAnswer := answerService
	oldDocuments := documentService
	oldConfig := configStore
	oldNewIngestor := newIngestor

	ingestService = &mockIngestor{stats: driving.IngestStats{Documents: 2, Chunks: 5}}
	queryService = &mockQuery{results: sampleSearchResults()}
	answerService = &mockAnswer{answer: sampleAnswer()}
	documentService = &mockDocuments{docs: sampleDocuments(), content: "package main"}
	configStore = memory.NewConfigStore()
	newIngestor = nil

	return func() {
		ingestService = oldIngest
		queryService = oldQuery
		answerService = oldAnswer
		documentService = oldDocuments
		configStore = oldConfig
		newIngestor = oldNewIngestor
	}
}

// resetHelpFlags clears the help flag cobra stores on each command;
// its parsed value persists across Execute calls, so a --help run
// would otherwise leak into later executions of the same command.
func resetHelpFlags(cmd *cobra.Command) {
	if f := cmd.Flags().Lookup("help"); f != nil {
		_ = f.Value.Set("false")
		f.Changed = false
	}
	for _, sub := range cmd.Commands() {
		resetHelpFlags(sub)
	}
}

// execute runs the root command with the given args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetHelpFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// --- Tests ---

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "src-to-kb", rootCmd.Use)
}

func TestRootCmd_HasGlobalFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("data-dir"))
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"index", "search", "ask", "documents", "config", "serve", "mcp", "tui", "version"} {
		assert.True(t, names[want], "%s command should be registered", want)
	}
}

func TestSetServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	query := &mockQuery{}
	SetServices(Services{Query: query})

	assert.Equal(t, driving.QueryService(query), queryService)
	assert.Nil(t, answerService)
}

func TestSetVersion(t *testing.T) {
	original := version
	defer func() { version = original }()

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)

	SetVersion("")
	assert.Equal(t, "1.2.3", version, "empty version should be ignored")
}
