package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chapter_store.go -package=mocks github.com/mhmd-249/socratic-tutor/internal/storage ChapterStore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// ChapterStore defines the interface for chapter catalog operations.
type ChapterStore interface {
	// GetByID gets a chapter by ID. Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*ChapterRecord, error)
	// GetOrCreate gets a chapter by book and number, or creates it with
	// the given title.
	GetOrCreate(ctx context.Context, bookID string, number int, title string) (*ChapterRecord, error)
	// MarkIngested records a completed ingestion for the chapter.
	MarkIngested(ctx context.Context, id, hash string, chunkCount int) error
	// ListByBook returns a book's chapters ordered by chapter number.
	ListByBook(ctx context.Context, bookID string) ([]ChapterRecord, error)
}

// ChapterRepo provides methods for chapter operations.
// It implements the ChapterStore interface.
type ChapterRepo struct {
	db *sql.DB
}

// NewChapterRepo creates a new ChapterRepo.
func NewChapterRepo(db *sql.DB) *ChapterRepo {
	return &ChapterRepo{db: db}
}

// GetByID gets a chapter by ID. Returns nil and ErrNotFound if not found.
func (r *ChapterRepo) GetByID(ctx context.Context, id string) (*ChapterRecord, error) {
	chapter, err := scanChapter(r.db.QueryRowContext(ctx,
		"SELECT id, book_id, chapter_number, title, hash, chunk_count, ingested_at FROM chapters WHERE id = ?",
		id,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query chapter: %w", err)
	}
	return chapter, nil
}

// GetOrCreate gets a chapter by book and number, or creates it with the
// given title.
func (r *ChapterRepo) GetOrCreate(ctx context.Context, bookID string, number int, title string) (*ChapterRecord, error) {
	chapter, err := scanChapter(r.db.QueryRowContext(ctx,
		"SELECT id, book_id, chapter_number, title, hash, chunk_count, ingested_at FROM chapters WHERE book_id = ? AND chapter_number = ?",
		bookID, number,
	))
	if err == nil {
		return chapter, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query chapter: %w", err)
	}

	id := uuid.New().String()
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO chapters (id, book_id, chapter_number, title) VALUES (?, ?, ?, ?)",
		id, bookID, number, title,
	); err != nil {
		return nil, fmt.Errorf("failed to create chapter: %w", err)
	}

	return r.GetByID(ctx, id)
}

// MarkIngested records a completed ingestion for the chapter.
func (r *ChapterRepo) MarkIngested(ctx context.Context, id, hash string, chunkCount int) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE chapters SET hash = ?, chunk_count = ?, ingested_at = CURRENT_TIMESTAMP WHERE id = ?",
		hash, chunkCount, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark chapter ingested: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByBook returns a book's chapters ordered by chapter number.
func (r *ChapterRepo) ListByBook(ctx context.Context, bookID string) ([]ChapterRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, book_id, chapter_number, title, hash, chunk_count, ingested_at FROM chapters WHERE book_id = ? ORDER BY chapter_number",
		bookID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var chapters []ChapterRecord
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, *chapter)
	}
	return chapters, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChapter(row rowScanner) (*ChapterRecord, error) {
	var chapter ChapterRecord
	var ingestedAt sql.NullTime
	err := row.Scan(&chapter.ID, &chapter.BookID, &chapter.ChapterNumber,
		&chapter.Title, &chapter.Hash, &chapter.ChunkCount, &ingestedAt)
	if err != nil {
		return nil, err
	}
	if ingestedAt.Valid {
		t := ingestedAt.Time.UTC()
		chapter.IngestedAt = &t
	}
	return &chapter, nil
}
