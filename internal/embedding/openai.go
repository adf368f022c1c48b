package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is the embedding model used when none is configured.
const DefaultModel = "text-embedding-3-small"

// OpenAIProvider implements Provider against the OpenAI embeddings API.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	dim    int
}

// NewOpenAIProvider creates a provider for the given model. timeout bounds
// each API call; expectedDim, when positive, is validated against every
// returned vector.
func NewOpenAIProvider(apiKey, model string, expectedDim int, timeout time.Duration) *OpenAIProvider {
	if model == "" {
		model = DefaultModel
	}
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		dim:    expectedDim,
	}
}

// Model returns the configured model name.
func (p *OpenAIProvider) Model() string {
	return p.model
}

// CreateEmbeddings issues one embeddings call for the batch.
func (p *OpenAIProvider) CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Model: openai.EmbeddingModel(p.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, item := range resp.Data {
		if p.dim > 0 && len(item.Embedding) != p.dim {
			return nil, fmt.Errorf("embedding %d has dimension %d, expected %d", i, len(item.Embedding), p.dim)
		}
		vectors[i] = item.Embedding
	}
	return vectors, nil
}

// isRateLimit reports whether err is a retryable rate-limit response from
// the provider, as opposed to a fatal error.
func isRateLimit(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
