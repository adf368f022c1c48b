// Package index defines the hybrid vector/full-text store the engine reads
// and writes. The store is an external collaborator: implementations wrap a
// Postgres+pgvector database or a Qdrant collection, and the engine never
// depends on which one is behind the interface.
package index

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_index.go -package=mocks github.com/mhmd-249/socratic-tutor/internal/index Index

import "context"

// ChunkRecord is the unit of the write contract: one chunk with its
// embedding and denormalized attribution, persisted atomically.
type ChunkRecord struct {
	ID            string
	ChapterID     string
	Content       string
	Embedding     []float32
	ChunkIndex    int
	SectionTitle  string
	TokenCount    int
	ChapterTitle  string
	ChapterNumber int
	BookTitle     string
	BookAuthor    string
	Metadata      map[string]any
}

// SearchRequest is one fused query: a query vector for semantic scoring, a
// lexical query for full-text ranking, an optional chapter scope, and a row
// limit.
type SearchRequest struct {
	Vector       []float32
	LexicalQuery string
	ChapterID    string
	Limit        int
}

// Row is the read contract: per-chunk scores plus attribution for display.
// Rows absent from the lexical result set carry KeywordScore 0.
type Row struct {
	ChunkID       string
	Content       string
	SectionTitle  string
	ChunkIndex    int
	SemanticScore float64
	KeywordScore  float64
	ChapterID     string
	ChapterTitle  string
	ChapterNumber int
	BookTitle     string
	BookAuthor    string
}

// Index is the store contract consumed by ingestion and retrieval.
type Index interface {
	// Upsert persists chunk records, replacing rows with matching IDs.
	Upsert(ctx context.Context, chunks []ChunkRecord) error

	// DeleteByChapter removes every chunk belonging to a chapter. Used for
	// re-ingestion, which replaces a chapter's chunk set wholesale.
	DeleteByChapter(ctx context.Context, chapterID string) error

	// Search runs one fused semantic+lexical query and returns scored rows
	// in the store's fused-or-semantic order, at most req.Limit of them.
	Search(ctx context.Context, req SearchRequest) ([]Row, error)

	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
