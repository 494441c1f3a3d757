package domain

// Evidence points a reader at the chunk backing part of an answer.
type Evidence struct {
	// File is the document's relative path.
	File string `json:"file"`

	// Lines is the chunk's line range within the file.
	Lines LineRange `json:"lines"`

	// Context is a short excerpt: the first snippet when one exists,
	// otherwise the chunk preview.
	Context string `json:"context"`
}

// Answer is a synthesized response to a question, grounded in ranked
// search results.
type Answer struct {
	// Text is the human-readable answer body.
	Text string `json:"text"`

	// Confidence is 0..1, derived from the top result's score.
	Confidence float64 `json:"confidence"`

	// TopFiles are the distinct document paths backing the answer, in
	// ranked order.
	TopFiles []string `json:"topFiles"`

	// Evidence lists the top results the answer was synthesized from.
	Evidence []Evidence `json:"evidence"`
}
