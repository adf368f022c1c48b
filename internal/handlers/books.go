package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mhmd-249/socratic-tutor/internal/contextutil"
	"github.com/mhmd-249/socratic-tutor/internal/storage"
)

// BooksHandler exposes the catalog: registered books and their chapters.
type BooksHandler struct {
	books    storage.BookStore
	chapters storage.ChapterStore
}

// NewBooksHandler creates a new BooksHandler.
func NewBooksHandler(books storage.BookStore, chapters storage.ChapterStore) *BooksHandler {
	return &BooksHandler{books: books, chapters: chapters}
}

// Book represents a book in catalog responses.
type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// Chapter represents a chapter in catalog responses.
type Chapter struct {
	ID            string     `json:"id"`
	ChapterNumber int        `json:"chapter_number"`
	Title         string     `json:"title"`
	ChunkCount    int        `json:"chunk_count"`
	IngestedAt    *time.Time `json:"ingested_at,omitempty"`
}

// List handles GET /api/books requests.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	records, err := h.books.List(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list books", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list books")
		return
	}

	books := make([]Book, 0, len(records))
	for _, rec := range records {
		books = append(books, Book{ID: rec.ID, Title: rec.Title, Author: rec.Author})
	}
	if err := writeJSON(w, http.StatusOK, books); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// Chapters handles GET /api/books/{bookID}/chapters requests.
func (h *BooksHandler) Chapters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	bookID := chi.URLParam(r, "bookID")
	if _, err := h.books.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Book not found")
			return
		}
		logger.ErrorContext(ctx, "failed to load book", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load book")
		return
	}

	records, err := h.chapters.ListByBook(ctx, bookID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list chapters", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list chapters")
		return
	}

	chapters := make([]Chapter, 0, len(records))
	for _, rec := range records {
		chapters = append(chapters, Chapter{
			ID:            rec.ID,
			ChapterNumber: rec.ChapterNumber,
			Title:         rec.Title,
			ChunkCount:    rec.ChunkCount,
			IngestedAt:    rec.IngestedAt,
		})
	}
	if err := writeJSON(w, http.StatusOK, chapters); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
