package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mhmd-249/socratic-tutor/internal/contextutil"
	"github.com/mhmd-249/socratic-tutor/internal/rag"
)

// ContextHandler handles HTTP requests for context assembly.
type ContextHandler struct {
	engine rag.Engine
}

// NewContextHandler creates a new ContextHandler.
func NewContextHandler(engine rag.Engine) *ContextHandler {
	return &ContextHandler{engine: engine}
}

// ServeHTTP handles POST /api/context requests.
func (h *ContextHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req rag.ContextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	resp, err := h.engine.BuildContext(ctx, req)
	if err != nil {
		status := http.StatusInternalServerError
		message := "Failed to build context"
		switch {
		case errors.Is(err, rag.ErrRetrievalUnavailable):
			status = http.StatusServiceUnavailable
			message = "Retrieval backend unavailable"
		}
		logger.ErrorContext(ctx, "context request failed", "error", err)
		writeError(w, status, message)
		return
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
