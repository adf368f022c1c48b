package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_book_store.go -package=mocks github.com/mhmd-249/socratic-tutor/internal/storage BookStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// BookStore defines the interface for book catalog operations.
type BookStore interface {
	// GetByID gets a book by ID. Returns nil and ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*BookRecord, error)
	// GetOrCreate gets an existing book by title and author, or creates it.
	GetOrCreate(ctx context.Context, title, author string) (*BookRecord, error)
	// List returns all books in the catalog.
	List(ctx context.Context) ([]BookRecord, error)
}

// BookRepo provides methods for book operations.
// It implements the BookStore interface.
type BookRepo struct {
	db *sql.DB
}

// NewBookRepo creates a new BookRepo.
func NewBookRepo(db *sql.DB) *BookRepo {
	return &BookRepo{db: db}
}

// GetByID gets a book by ID. Returns nil and ErrNotFound if not found.
func (r *BookRepo) GetByID(ctx context.Context, id string) (*BookRecord, error) {
	var book BookRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, author, created_at FROM books WHERE id = ?",
		id,
	).Scan(&book.ID, &book.Title, &book.Author, &book.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}
	return &book, nil
}

// GetOrCreate gets an existing book by title and author, or creates it.
func (r *BookRepo) GetOrCreate(ctx context.Context, title, author string) (*BookRecord, error) {
	var book BookRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, author, created_at FROM books WHERE title = ? AND author = ?",
		title, author,
	).Scan(&book.ID, &book.Title, &book.Author, &book.CreatedAt)

	if err == nil {
		return &book, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}

	id := uuid.New().String()
	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO books (id, title, author) VALUES (?, ?, ?)",
		id, title, author,
	); err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return r.GetByID(ctx, id)
}

// List returns all books ordered by title.
func (r *BookRepo) List(ctx context.Context) ([]BookRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, author, created_at FROM books ORDER BY title, author",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var books []BookRecord
	for rows.Next() {
		var book BookRecord
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &book.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}
	return books, rows.Err()
}
