package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mhmd-249/socratic-tutor/internal/embedding"
	"github.com/mhmd-249/socratic-tutor/internal/ingest"
)

type fakeIngester struct {
	gotSource ingest.ChapterSource
	result    *ingest.Result
	err       error
}

func (f *fakeIngester) IngestChapter(_ context.Context, src ingest.ChapterSource) (*ingest.Result, error) {
	f.gotSource = src
	return f.result, f.err
}

func TestIngestHandler(t *testing.T) {
	fake := &fakeIngester{
		result: &ingest.Result{BookID: "b1", ChapterID: "c1", Chunks: 4},
	}
	handler := NewIngestHandler(fake)

	body := `{
		"book_title": "Algorithms",
		"book_author": "Author",
		"chapter_number": 2,
		"chapter_title": "Sorting",
		"markdown": "## Sorting\n\nContent."
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if fake.gotSource.BookTitle != "Algorithms" || fake.gotSource.ChapterNumber != 2 {
		t.Errorf("source not forwarded: %+v", fake.gotSource)
	}

	var resp IngestResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ChapterID != "c1" || resp.Chunks != 4 || resp.Skipped {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestIngestHandlerValidation(t *testing.T) {
	handler := NewIngestHandler(&fakeIngester{})

	tests := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: "{"},
		{name: "missing book title", body: `{"chapter_number": 1, "chapter_title": "T"}`},
		{name: "zero chapter number", body: `{"book_title": "B", "chapter_number": 0, "chapter_title": "T"}`},
		{name: "missing chapter title", body: `{"book_title": "B", "chapter_number": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestIngestHandlerErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "embedding unavailable",
			err:        fmt.Errorf("failed to embed chunks: %w", embedding.ErrUnavailable),
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "unexpected error",
			err:        fmt.Errorf("catalog write failed"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	body := `{"book_title": "B", "chapter_number": 1, "chapter_title": "T", "markdown": "x"}`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewIngestHandler(&fakeIngester{err: tt.err})
			req := httptest.NewRequest(http.MethodPost, "/api/ingest", strings.NewReader(body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
