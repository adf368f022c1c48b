package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/mhmd-249/socratic-tutor/internal/storage"
	storagemocks "github.com/mhmd-249/socratic-tutor/internal/storage/mocks"
)

func TestBooksHandlerList(t *testing.T) {
	ctrl := gomock.NewController(t)
	books := storagemocks.NewMockBookStore(ctrl)
	chapters := storagemocks.NewMockChapterStore(ctrl)

	books.EXPECT().List(gomock.Any()).Return([]storage.BookRecord{
		{ID: "b1", Title: "Algorithms", Author: "Author"},
	}, nil)

	handler := NewBooksHandler(books, chapters)
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	rec := httptest.NewRecorder()
	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []Book
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Algorithms" {
		t.Errorf("unexpected books: %+v", got)
	}
}

func TestBooksHandlerChapters(t *testing.T) {
	ctrl := gomock.NewController(t)
	books := storagemocks.NewMockBookStore(ctrl)
	chapters := storagemocks.NewMockChapterStore(ctrl)

	books.EXPECT().GetByID(gomock.Any(), "b1").
		Return(&storage.BookRecord{ID: "b1", Title: "Algorithms"}, nil)
	chapters.EXPECT().ListByBook(gomock.Any(), "b1").Return([]storage.ChapterRecord{
		{ID: "c1", ChapterNumber: 1, Title: "Intro", ChunkCount: 5},
	}, nil)

	handler := NewBooksHandler(books, chapters)
	req := chapterRequest(t, "b1")
	rec := httptest.NewRecorder()
	handler.Chapters(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got []Chapter
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].ChunkCount != 5 {
		t.Errorf("unexpected chapters: %+v", got)
	}
}

func TestBooksHandlerChaptersNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	books := storagemocks.NewMockBookStore(ctrl)
	chapters := storagemocks.NewMockChapterStore(ctrl)

	books.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, storage.ErrNotFound)

	handler := NewBooksHandler(books, chapters)
	req := chapterRequest(t, "missing")
	rec := httptest.NewRecorder()
	handler.Chapters(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// chapterRequest builds a request carrying the bookID chi URL parameter.
func chapterRequest(t *testing.T, bookID string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/books/"+bookID+"/chapters", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("bookID", bookID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
