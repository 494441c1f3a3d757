package domain

// DefaultSearchLimit caps result counts when the caller does not set one.
const DefaultSearchLimit = 10

// PreviewLength is the number of leading characters of chunk content
// exposed as a result preview.
const PreviewLength = 200

// SearchOptions configures a query against the corpus.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero or negative means
	// DefaultSearchLimit.
	Limit int

	// Mode is the audience profile key applied to results and answers.
	// Unknown keys fall back to ModeDeveloper.
	Mode string

	// Remote routes the query to the configured search delegate
	// instead of the local corpus.
	Remote bool
}

// EffectiveLimit resolves the limit, applying the default.
func (o SearchOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultSearchLimit
	}
	return o.Limit
}

// SearchResult represents a single ranked chunk hit.
// Results are ephemeral query outputs, never stored.
type SearchResult struct {
	// DocumentID is the parent document identifier.
	DocumentID string `json:"documentId"`

	// DocumentPath is the parent document's relative path.
	DocumentPath string `json:"documentPath"`

	// DocumentLanguage is the parent document's language label.
	DocumentLanguage string `json:"documentLanguage"`

	// ChunkID is the matched chunk identifier.
	ChunkID string `json:"chunkId"`

	// Score is the summed keyword occurrence count, always positive
	// for returned results.
	Score int `json:"score"`

	// Lines is the chunk's inclusive line range.
	Lines LineRange `json:"lines"`

	// Snippets are short contexts around the first occurrence of each
	// matched keyword, deduplicated.
	Snippets []string `json:"snippets"`

	// FullContent is the complete chunk content.
	FullContent string `json:"fullContent"`

	// Preview is the first PreviewLength characters of the chunk.
	Preview string `json:"preview"`
}

// MakePreview truncates chunk content to the preview length.
func MakePreview(content string) string {
	if len(content) <= PreviewLength {
		return content
	}
	return content[:PreviewLength]
}
