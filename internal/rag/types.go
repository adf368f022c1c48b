// Package rag implements the query half of the retrieval engine: hybrid
// retrieval against the index, heuristic reranking, and token-budgeted
// context assembly.
package rag

import "errors"

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks github.com/mhmd-249/socratic-tutor/internal/rag Engine

var (
	// ErrWeights is returned at construction when the semantic and keyword
	// weights do not sum to 1.0.
	ErrWeights = errors.New("semantic and keyword weights must sum to 1.0")

	// ErrRetrievalUnavailable is returned when either the embedding call or
	// the index query fails during retrieval. An empty result set is not an
	// error.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")
)

// Query describes one retrieval request.
type Query struct {
	// Text is the raw query text; it is embedded for semantic scoring and
	// reused as the lexical query.
	Text string
	// ChapterID optionally restricts the search to one chapter.
	ChapterID string
	// TopK is the desired result count; the retriever over-fetches 2x to
	// leave reranking headroom. Zero means the default of 5.
	TopK int
	// SimilarityThreshold is the combined-score floor in [0,1].
	SimilarityThreshold float64
}

// Candidate is a scored retrieval result. Raw index rows are mapped into
// Candidates at the retrieval boundary and never escape past it.
type Candidate struct {
	ChunkID      string  `json:"chunk_id"`
	Content      string  `json:"content"`
	SectionTitle string  `json:"section_title,omitempty"`
	ChunkIndex   int     `json:"chunk_index"`
	// SemanticScore is 1 - cosine distance, in [0,1].
	SemanticScore float64 `json:"semantic_score"`
	// KeywordScore is the normalized lexical rank; 0 when the chunk was
	// absent from the lexical result set.
	KeywordScore float64 `json:"keyword_score"`
	// CombinedScore is the weighted fusion of the two signals. Reranking
	// overwrites it in place with the final score.
	CombinedScore float64 `json:"combined_score"`
	// Attribution, denormalized for display.
	ChapterID     string `json:"chapter_id,omitempty"`
	ChapterTitle  string `json:"chapter_title"`
	ChapterNumber int    `json:"chapter_number"`
	BookTitle     string `json:"book_title"`
	BookAuthor    string `json:"book_author,omitempty"`
}
