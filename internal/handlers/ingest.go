package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mhmd-249/socratic-tutor/internal/contextutil"
	"github.com/mhmd-249/socratic-tutor/internal/embedding"
	"github.com/mhmd-249/socratic-tutor/internal/ingest"
)

// Ingester is the pipeline surface the handler depends on.
type Ingester interface {
	IngestChapter(ctx context.Context, src ingest.ChapterSource) (*ingest.Result, error)
}

// IngestHandler handles HTTP requests for chapter ingestion.
type IngestHandler struct {
	pipeline Ingester
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(pipeline Ingester) *IngestHandler {
	return &IngestHandler{pipeline: pipeline}
}

// IngestRequest represents the HTTP request payload for ingestion.
type IngestRequest struct {
	BookTitle     string `json:"book_title"`
	BookAuthor    string `json:"book_author"`
	ChapterNumber int    `json:"chapter_number"`
	ChapterTitle  string `json:"chapter_title"`
	Markdown      string `json:"markdown"`
}

// IngestResponse represents the HTTP response payload for ingestion.
type IngestResponse struct {
	BookID    string `json:"book_id"`
	ChapterID string `json:"chapter_id"`
	Chunks    int    `json:"chunks"`
	Skipped   bool   `json:"skipped"`
}

// ServeHTTP handles POST /api/ingest requests.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.BookTitle) == "" {
		writeError(w, http.StatusBadRequest, "Book title is required")
		return
	}
	if req.ChapterNumber <= 0 {
		writeError(w, http.StatusBadRequest, "Chapter number must be positive")
		return
	}
	if strings.TrimSpace(req.ChapterTitle) == "" {
		writeError(w, http.StatusBadRequest, "Chapter title is required")
		return
	}

	result, err := h.pipeline.IngestChapter(ctx, ingest.ChapterSource{
		BookTitle:     req.BookTitle,
		BookAuthor:    req.BookAuthor,
		ChapterNumber: req.ChapterNumber,
		ChapterTitle:  req.ChapterTitle,
		Markdown:      req.Markdown,
	})
	if err != nil {
		status := http.StatusInternalServerError
		message := "Failed to ingest chapter"
		if errors.Is(err, embedding.ErrUnavailable) {
			status = http.StatusBadGateway
			message = "Embedding provider unavailable"
		}
		logger.ErrorContext(ctx, "ingestion failed", "error", err)
		writeError(w, status, message)
		return
	}

	resp := IngestResponse{
		BookID:    result.BookID,
		ChapterID: result.ChapterID,
		Chunks:    result.Chunks,
		Skipped:   result.Skipped,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
