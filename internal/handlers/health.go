package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mhmd-249/socratic-tutor/internal/contextutil"
	"github.com/mhmd-249/socratic-tutor/internal/index"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	idx          index.Index
	checkTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(idx index.Index) *HealthHandler {
	return &HealthHandler{
		idx:          idx,
		checkTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

// ServeHTTP handles GET /api/health requests. Returns 200 when the index is
// reachable, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if err := h.idx.Ping(checkCtx); err != nil {
		logger.WarnContext(ctx, "index health check failed", "error", err)
		checks["index"] = "error"
		issues = append(issues, "index_unavailable")
	} else {
		checks["index"] = "ok"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}
