package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/vezlo/src-to-kb/internal/core/domain"
	"github.com/vezlo/src-to-kb/internal/logger"
)

// maxRequestBodySize limits POST body sizes.
const maxRequestBodySize = 1 << 20 // 1 MB

// SearchRequest is the request body for POST /api/search.
type SearchRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
	Mode   string `json:"mode,omitempty"`
	Remote bool   `json:"remote,omitempty"`
}

// SearchResponse is the response body for POST /api/search.
type SearchResponse struct {
	Results []domain.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

// AskRequest is the request body for POST /api/ask.
type AskRequest struct {
	Question string `json:"question"`
	Mode     string `json:"mode,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Remote   bool   `json:"remote,omitempty"`
}

// DocumentInfo is one entry of GET /api/documents.
type DocumentInfo struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Source    string    `json:"source"`
	Language  string    `json:"language,omitempty"`
	Type      string    `json:"type"`
	Size      int64     `json:"size"`
	Lines     int       `json:"lines"`
	IndexedAt time.Time `json:"indexedAt"`
}

// DocumentListResponse is the response body for GET /api/documents.
type DocumentListResponse struct {
	Documents []DocumentInfo `json:"documents"`
	Count     int            `json:"count"`
}

// DocumentDetail is the response body for GET /api/documents/{id}.
type DocumentDetail struct {
	DocumentInfo
	Chunks   int    `json:"chunks"`
	Checksum string `json:"checksum"`
	Content  string `json:"content"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}

	opts := domain.SearchOptions{
		Limit:  req.Limit,
		Mode:   req.Mode,
		Remote: req.Remote,
	}

	results, err := s.ports.Query.Search(r.Context(), req.Query, opts)
	if err != nil {
		logger.Error("search request failed: %v", err)
		http.Error(w, "search failed", http.StatusInternalServerError)
		return
	}

	if results == nil {
		results = []domain.SearchResult{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Results: results,
		Count:   len(results),
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		http.Error(w, "question is required", http.StatusBadRequest)
		return
	}

	opts := domain.SearchOptions{
		Limit:  req.Limit,
		Mode:   req.Mode,
		Remote: req.Remote,
	}

	answer, err := s.ports.Answer.Ask(r.Context(), req.Question, opts)
	if err != nil {
		logger.Error("ask request failed: %v", err)
		http.Error(w, "ask failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleDocumentList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	docs, err := s.ports.Documents.List(r.Context())
	if err != nil {
		logger.Error("document list failed: %v", err)
		http.Error(w, "listing documents failed", http.StatusInternalServerError)
		return
	}

	infos := make([]DocumentInfo, len(docs))
	for i := range docs {
		infos[i] = documentInfo(&docs[i])
	}

	writeJSON(w, http.StatusOK, DocumentListResponse{
		Documents: infos,
		Count:     len(infos),
	})
}

func (s *Server) handleDocumentGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	doc, chunks, err := s.ports.Documents.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		logger.Error("document get failed: %v", err)
		http.Error(w, "getting document failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, DocumentDetail{
		DocumentInfo: documentInfo(&doc),
		Chunks:       len(chunks),
		Checksum:     doc.Checksum,
		Content:      doc.Content,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func documentInfo(doc *domain.Document) DocumentInfo {
	return DocumentInfo{
		ID:        doc.ID,
		Path:      doc.RelativePath,
		Source:    doc.SourceID,
		Language:  doc.Language,
		Type:      doc.Type.String(),
		Size:      doc.Size,
		Lines:     doc.LineCount,
		IndexedAt: doc.CreatedAt,
	}
}

// writeJSON marshals v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encoding response: %v", err)
	}
}
