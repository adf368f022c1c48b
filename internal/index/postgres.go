package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/mhmd-249/socratic-tutor/internal/contextutil"
)

// PostgresIndex implements Index over Postgres with pgvector for ANN search
// and tsvector full-text ranking. This is the primary backend: it is the
// only one that produces real lexical scores.
type PostgresIndex struct {
	db *sql.DB
}

// NewPostgresIndex opens a connection pool against dsn and verifies it.
func NewPostgresIndex(dsn string) (*PostgresIndex, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresIndex{db: db}, nil
}

// Close releases the connection pool.
func (x *PostgresIndex) Close() error {
	return x.db.Close()
}

// Migrate creates the vector extension, the chunks table, and its indexes.
// dim is the embedding dimension; it is fixed per index and changing it
// requires rebuilding the table. Idempotent.
func (x *PostgresIndex) Migrate(ctx context.Context, dim int) error {
	if dim <= 0 {
		return fmt.Errorf("embedding dimension must be positive, got %d", dim)
	}

	schema := []string{
		`CREATE EXTENSION IF NOT EXISTS vector;`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS chunks (
			id UUID PRIMARY KEY,
			chapter_id UUID NOT NULL,
			content TEXT NOT NULL,
			content_tsv tsvector GENERATED ALWAYS AS (to_tsvector('english', content)) STORED,
			embedding vector(%d) NOT NULL,
			chunk_index INTEGER NOT NULL,
			section_title TEXT,
			token_count INTEGER NOT NULL DEFAULT 0,
			chapter_title TEXT NOT NULL DEFAULT '',
			chapter_number INTEGER NOT NULL DEFAULT 0,
			book_title TEXT NOT NULL DEFAULT '',
			book_author TEXT NOT NULL DEFAULT '',
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`, dim),
		`CREATE INDEX IF NOT EXISTS chunks_chapter_idx ON chunks (chapter_id);`,
		`CREATE INDEX IF NOT EXISTS chunks_tsv_idx ON chunks USING GIN (content_tsv);`,
		`CREATE INDEX IF NOT EXISTS chunks_embedding_idx ON chunks USING hnsw (embedding vector_cosine_ops);`,
	}

	for _, stmt := range schema {
		if _, err := x.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate chunks table: %w", err)
		}
	}
	return nil
}

// Upsert writes chunk records in one transaction. The embedding travels as
// a typed pgvector parameter, never interpolated into the statement.
func (x *PostgresIndex) Upsert(ctx context.Context, chunks []ChunkRecord) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(chunks) == 0 {
		return nil
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const stmt = `INSERT INTO chunks
		(id, chapter_id, content, embedding, chunk_index, section_title, token_count,
		 chapter_title, chapter_number, book_title, book_author, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			chapter_id = EXCLUDED.chapter_id,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			chunk_index = EXCLUDED.chunk_index,
			section_title = EXCLUDED.section_title,
			token_count = EXCLUDED.token_count,
			chapter_title = EXCLUDED.chapter_title,
			chapter_number = EXCLUDED.chapter_number,
			book_title = EXCLUDED.book_title,
			book_author = EXCLUDED.book_author,
			metadata = EXCLUDED.metadata`

	for _, chunk := range chunks {
		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshal chunk metadata: %w", err)
		}
		_, err = tx.ExecContext(ctx, stmt,
			chunk.ID,
			chunk.ChapterID,
			chunk.Content,
			pgvector.NewVector(chunk.Embedding),
			chunk.ChunkIndex,
			nullString(chunk.SectionTitle),
			chunk.TokenCount,
			chunk.ChapterTitle,
			chunk.ChapterNumber,
			chunk.BookTitle,
			chunk.BookAuthor,
			metadata,
		)
		if err != nil {
			return fmt.Errorf("upsert chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}

	logger.InfoContext(ctx, "upserted chunks", "count", len(chunks))
	return nil
}

// DeleteByChapter removes a chapter's chunk set.
func (x *PostgresIndex) DeleteByChapter(ctx context.Context, chapterID string) error {
	logger := contextutil.LoggerFromContext(ctx)

	result, err := x.db.ExecContext(ctx, `DELETE FROM chunks WHERE chapter_id = $1`, chapterID)
	if err != nil {
		return fmt.Errorf("delete chunks by chapter: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n > 0 {
		logger.InfoContext(ctx, "deleted chunks", "chapter_id", chapterID, "count", n)
	}
	return nil
}

// Search runs the fused query: cosine similarity against the query vector,
// ts_rank against the lexical query, LEFT JOINed so rows without a lexical
// match keep a keyword score of zero.
func (x *PostgresIndex) Search(ctx context.Context, req SearchRequest) ([]Row, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if req.Limit <= 0 {
		return nil, fmt.Errorf("search limit must be positive, got %d", req.Limit)
	}

	const query = `
		WITH semantic AS (
			SELECT id, chapter_id, content, section_title, chunk_index,
			       chapter_title, chapter_number, book_title, book_author,
			       1 - (embedding <=> $1) AS semantic_score
			FROM chunks
			WHERE ($2::uuid IS NULL OR chapter_id = $2::uuid)
		),
		keyword AS (
			SELECT id,
			       ts_rank(content_tsv, websearch_to_tsquery('english', $3)) AS keyword_score
			FROM chunks
			WHERE content_tsv @@ websearch_to_tsquery('english', $3)
			  AND ($2::uuid IS NULL OR chapter_id = $2::uuid)
		)
		SELECT s.id, s.chapter_id, s.content, s.section_title, s.chunk_index,
		       s.semantic_score, COALESCE(k.keyword_score, 0.0) AS keyword_score,
		       s.chapter_title, s.chapter_number, s.book_title, s.book_author
		FROM semantic s
		LEFT JOIN keyword k ON s.id = k.id
		ORDER BY s.semantic_score DESC
		LIMIT $4`

	rows, err := x.db.QueryContext(ctx, query,
		pgvector.NewVector(req.Vector),
		nullString(req.ChapterID),
		req.LexicalQuery,
		req.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("hybrid search: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []Row
	for rows.Next() {
		var row Row
		var section sql.NullString
		if err := rows.Scan(
			&row.ChunkID,
			&row.ChapterID,
			&row.Content,
			&section,
			&row.ChunkIndex,
			&row.SemanticScore,
			&row.KeywordScore,
			&row.ChapterTitle,
			&row.ChapterNumber,
			&row.BookTitle,
			&row.BookAuthor,
		); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		row.SectionTitle = section.String
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}

	logger.DebugContext(ctx, "hybrid search completed", "rows", len(results), "limit", req.Limit)
	return results, nil
}

// Ping reports store reachability.
func (x *PostgresIndex) Ping(ctx context.Context) error {
	return x.db.PingContext(ctx)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
