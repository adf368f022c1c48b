package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/mhmd-249/socratic-tutor/internal/chunker"
	"github.com/mhmd-249/socratic-tutor/internal/config"
	"github.com/mhmd-249/socratic-tutor/internal/embedding"
	"github.com/mhmd-249/socratic-tutor/internal/http"
	"github.com/mhmd-249/socratic-tutor/internal/index"
	"github.com/mhmd-249/socratic-tutor/internal/ingest"
	"github.com/mhmd-249/socratic-tutor/internal/rag"
	"github.com/mhmd-249/socratic-tutor/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel, "format", cfg.LogFormat)

	// Initialize catalog database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Catalog database initialized", "path", cfg.DBPath)

	bookRepo := storage.NewBookRepo(db)
	chapterRepo := storage.NewChapterRepo(db)

	ctx := context.Background()

	// Initialize the search index backend
	var idx index.Index
	switch cfg.IndexBackend {
	case "postgres":
		pgIndex, err := index.NewPostgresIndex(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		if err := pgIndex.Migrate(ctx, cfg.EmbeddingDim); err != nil {
			log.Fatalf("Failed to migrate index schema: %v", err)
		}
		idx = pgIndex
	case "qdrant":
		qdrantIndex, err := index.NewQdrantIndex(cfg.QdrantURL, cfg.QdrantCollection)
		if err != nil {
			log.Fatalf("Failed to create Qdrant client: %v", err)
		}
		if err := qdrantIndex.EnsureCollection(ctx, cfg.EmbeddingDim); err != nil {
			log.Fatalf("Failed to ensure Qdrant collection: %v", err)
		}
		idx = qdrantIndex
	}
	idx = index.WithTimeout(idx, cfg.IndexTimeout)
	slog.Info("Index backend ready", "backend", cfg.IndexBackend, "dimension", cfg.EmbeddingDim)

	// Embedding client over OpenAI
	provider := embedding.NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.EmbeddingModel, cfg.EmbeddingDim, cfg.EmbeddingTimeout)
	embedder := embedding.NewClient(provider, cfg.EmbeddingBatch, cfg.EmbeddingRetries)

	// Ingestion pipeline
	chunkerCfg := chunker.ChunkConfig{
		TargetChunkSize: cfg.TargetChunkSize,
		MaxChunkSize:    cfg.MaxChunkSize,
		Overlap:         cfg.ChunkOverlap,
	}
	ch, err := chunker.New(chunkerCfg)
	if err != nil {
		log.Fatalf("Invalid chunker configuration: %v", err)
	}
	pipeline := ingest.NewPipeline(ch, embedder, idx, bookRepo, chapterRepo)

	// Query engine
	retriever, err := rag.NewHybridRetriever(embedder, idx, cfg.SemanticWeight, cfg.KeywordWeight)
	if err != nil {
		log.Fatalf("Invalid retrieval weights: %v", err)
	}
	reranker := rag.NewReranker(rag.RerankWeights{
		Base:        cfg.RerankBase,
		TermOverlap: cfg.RerankTermOverlap,
		Position:    cfg.RerankPosition,
	})
	engine := rag.NewEngine(retriever, reranker)
	slog.Info("Context engine initialized")

	deps := &http.Deps{
		Engine:   engine,
		Pipeline: pipeline,
		Index:    idx,
		Books:    bookRepo,
		Chapters: chapterRepo,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
