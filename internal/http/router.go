package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mhmd-249/socratic-tutor/internal/handlers"
	"github.com/mhmd-249/socratic-tutor/internal/index"
	"github.com/mhmd-249/socratic-tutor/internal/rag"
	"github.com/mhmd-249/socratic-tutor/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine   rag.Engine
	Pipeline handlers.Ingester
	Index    index.Index
	Books    storage.BookStore
	Chapters storage.ChapterStore
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	contextHandler := handlers.NewContextHandler(deps.Engine)
	ingestHandler := handlers.NewIngestHandler(deps.Pipeline)
	healthHandler := handlers.NewHealthHandler(deps.Index)
	booksHandler := handlers.NewBooksHandler(deps.Books, deps.Chapters)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodPost, "/context", contextHandler)
		r.Method(http.MethodPost, "/ingest", ingestHandler)
		r.Get("/books", booksHandler.List)
		r.Get("/books/{bookID}/chapters", booksHandler.Chapters)
	})

	return r
}
