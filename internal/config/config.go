package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	LogLevel  string
	LogFormat string

	OpenAIAPIKey     string
	EmbeddingModel   string
	EmbeddingDim     int
	EmbeddingBatch   int
	EmbeddingRetries int
	EmbeddingTimeout time.Duration

	IndexBackend     string // "postgres" or "qdrant"
	IndexTimeout     time.Duration
	PostgresDSN      string
	QdrantURL        string
	QdrantCollection string

	DBPath string

	TargetChunkSize int
	MaxChunkSize    int
	ChunkOverlap    int

	SemanticWeight      float64
	KeywordWeight       float64
	SimilarityThreshold float64
	TopK                int
	MaxContextTokens    int

	RerankBase        float64
	RerankTermOverlap float64
	RerankPosition    float64
}

// Load reads configuration from environment variables and returns a Config
// struct. It applies defaults for optional fields and validates required
// fields. If a .env file exists in the current directory or project root,
// it is loaded automatically; already-set environment variables take
// precedence over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load() // Try current directory

	// Walk up to find a project-root .env (next to go.mod).
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:   getEnv("API_PORT", "9000"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-3-small"),

		IndexBackend:     getEnv("INDEX_BACKEND", "postgres"),
		PostgresDSN:      getEnv("POSTGRES_DSN", ""),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "chunks"),

		DBPath: getEnv("DB_PATH", "./data/socratic-tutor.db"),
	}

	var parseErr error
	cfg.EmbeddingDim = getEnvInt("EMBEDDING_DIM", 1536, &parseErr)
	cfg.EmbeddingBatch = getEnvInt("EMBEDDING_BATCH_SIZE", 100, &parseErr)
	cfg.EmbeddingRetries = getEnvInt("EMBEDDING_MAX_RETRIES", 3, &parseErr)
	cfg.EmbeddingTimeout = time.Duration(getEnvInt("EMBEDDING_TIMEOUT_SECONDS", 30, &parseErr)) * time.Second
	cfg.IndexTimeout = time.Duration(getEnvInt("INDEX_TIMEOUT_SECONDS", 10, &parseErr)) * time.Second
	cfg.TargetChunkSize = getEnvInt("TARGET_CHUNK_SIZE", 600, &parseErr)
	cfg.MaxChunkSize = getEnvInt("MAX_CHUNK_SIZE", 800, &parseErr)
	cfg.ChunkOverlap = getEnvInt("CHUNK_OVERLAP", 100, &parseErr)
	cfg.TopK = getEnvInt("TOP_K", 5, &parseErr)
	cfg.MaxContextTokens = getEnvInt("MAX_CONTEXT_TOKENS", 4000, &parseErr)
	cfg.SemanticWeight = getEnvFloat("SEMANTIC_WEIGHT", 0.7, &parseErr)
	cfg.KeywordWeight = getEnvFloat("KEYWORD_WEIGHT", 0.3, &parseErr)
	cfg.SimilarityThreshold = getEnvFloat("SIMILARITY_THRESHOLD", 0.7, &parseErr)
	cfg.RerankBase = getEnvFloat("RERANK_BASE_WEIGHT", 0.8, &parseErr)
	cfg.RerankTermOverlap = getEnvFloat("RERANK_TERM_WEIGHT", 0.15, &parseErr)
	cfg.RerankPosition = getEnvFloat("RERANK_POSITION_WEIGHT", 0.05, &parseErr)
	if parseErr != nil {
		return nil, parseErr
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.EmbeddingDim <= 0 {
		return nil, fmt.Errorf("EMBEDDING_DIM must be greater than 0")
	}

	switch cfg.IndexBackend {
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required when INDEX_BACKEND=postgres")
		}
	case "qdrant":
		if cfg.QdrantURL == "" {
			return nil, fmt.Errorf("QDRANT_URL is required when INDEX_BACKEND=qdrant")
		}
	default:
		return nil, fmt.Errorf("INDEX_BACKEND must be \"postgres\" or \"qdrant\", got %q", cfg.IndexBackend)
	}

	if math.Abs(cfg.SemanticWeight+cfg.KeywordWeight-1.0) > 0.01 {
		return nil, fmt.Errorf("SEMANTIC_WEIGHT and KEYWORD_WEIGHT must sum to 1.0, got %.3f and %.3f",
			cfg.SemanticWeight, cfg.KeywordWeight)
	}

	// Create the data directory for the catalog DB if needed.
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer environment variable, recording the first
// parse failure in errOut.
func getEnvInt(key string, defaultValue int, errOut *error) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		if *errOut == nil {
			*errOut = fmt.Errorf("%s must be a valid integer: %w", key, err)
		}
		return defaultValue
	}
	return parsed
}

// getEnvFloat parses a float environment variable, recording the first
// parse failure in errOut.
func getEnvFloat(key string, defaultValue float64, errOut *error) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		if *errOut == nil {
			*errOut = fmt.Errorf("%s must be a valid number: %w", key, err)
		}
		return defaultValue
	}
	return parsed
}
