package config

import (
	"os"
	"testing"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

func TestLoad(t *testing.T) {
	// Save original env vars
	originalEnv := make(map[string]string)
	envVars := []string{
		"API_PORT", "LOG_LEVEL", "LOG_FORMAT",
		"OPENAI_API_KEY", "EMBEDDING_MODEL", "EMBEDDING_DIM",
		"EMBEDDING_BATCH_SIZE", "EMBEDDING_MAX_RETRIES", "EMBEDDING_TIMEOUT_SECONDS",
		"INDEX_TIMEOUT_SECONDS",
		"INDEX_BACKEND", "POSTGRES_DSN", "QDRANT_URL", "QDRANT_COLLECTION",
		"DB_PATH", "TARGET_CHUNK_SIZE", "MAX_CHUNK_SIZE", "CHUNK_OVERLAP",
		"SEMANTIC_WEIGHT", "KEYWORD_WEIGHT", "SIMILARITY_THRESHOLD",
		"TOP_K", "MAX_CONTEXT_TOKENS",
		"RERANK_BASE_WEIGHT", "RERANK_TERM_WEIGHT", "RERANK_POSITION_WEIGHT",
	}
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	defer func() {
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	}()

	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "valid config with defaults",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("POSTGRES_DSN", "postgres://localhost/tutor")
				setEnv("DB_PATH", t.TempDir()+"/catalog.db")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.IndexBackend == "postgres" &&
					cfg.TargetChunkSize == 600 &&
					cfg.MaxChunkSize == 800 &&
					cfg.ChunkOverlap == 100 &&
					cfg.SemanticWeight == 0.7 &&
					cfg.KeywordWeight == 0.3 &&
					cfg.EmbeddingDim == 1536 &&
					cfg.TopK == 5 &&
					cfg.MaxContextTokens == 4000
			},
		},
		{
			name: "missing api key",
			setupEnv: func(t *testing.T) {
				setEnv("POSTGRES_DSN", "postgres://localhost/tutor")
			},
			wantErr: true,
		},
		{
			name: "postgres backend requires dsn",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("INDEX_BACKEND", "postgres")
			},
			wantErr: true,
		},
		{
			name: "qdrant backend",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("INDEX_BACKEND", "qdrant")
				setEnv("QDRANT_URL", "http://localhost:6333")
				setEnv("DB_PATH", t.TempDir()+"/catalog.db")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.IndexBackend == "qdrant" && cfg.QdrantCollection == "chunks"
			},
		},
		{
			name: "unknown backend",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("INDEX_BACKEND", "elasticsearch")
			},
			wantErr: true,
		},
		{
			name: "weights must sum to one",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("POSTGRES_DSN", "postgres://localhost/tutor")
				setEnv("SEMANTIC_WEIGHT", "0.8")
				setEnv("KEYWORD_WEIGHT", "0.3")
			},
			wantErr: true,
		},
		{
			name: "invalid integer",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("POSTGRES_DSN", "postgres://localhost/tutor")
				setEnv("TOP_K", "five")
			},
			wantErr: true,
		},
		{
			name: "override tuning values",
			setupEnv: func(t *testing.T) {
				setEnv("OPENAI_API_KEY", "sk-test")
				setEnv("POSTGRES_DSN", "postgres://localhost/tutor")
				setEnv("DB_PATH", t.TempDir()+"/catalog.db")
				setEnv("TARGET_CHUNK_SIZE", "400")
				setEnv("SIMILARITY_THRESHOLD", "0.5")
			},
			wantErr: false,
			checkConfig: func(cfg *Config) bool {
				return cfg.TargetChunkSize == 400 && cfg.SimilarityThreshold == 0.5
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range envVars {
				unsetEnv(key)
			}
			tt.setupEnv(t)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Fatal("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("config validation failed: %+v", cfg)
			}
		})
	}
}
