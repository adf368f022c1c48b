// Package embedding converts text into fixed-dimension vectors via a remote
// provider, with batching and bounded retry on rate limits.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mhmd-249/socratic-tutor/internal/contextutil"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedding.go -package=mocks github.com/mhmd-249/socratic-tutor/internal/embedding Provider,Embedder

// ErrUnavailable is returned when the embedding provider exhausted its
// retries or failed with a fatal error. No partial results accompany it.
var ErrUnavailable = errors.New("embedding provider unavailable")

// Provider is the raw embedding API: one call, one batch, positional vectors.
type Provider interface {
	CreateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// Embedder is the interface consumed by ingestion and retrieval.
type Embedder interface {
	// Embed returns one vector per non-blank input text, in input order.
	// Blank entries are dropped, not placeheld.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedOne embeds a single text and unwraps the singleton result.
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

const (
	defaultBatchSize  = 100
	defaultMaxRetries = 3
	batchPause        = 500 * time.Millisecond
)

// Client batches embedding requests against a Provider. Batches are
// serialized with a short pause between them to stay under provider rate
// limits; a rate-limited batch is retried with exponential backoff.
type Client struct {
	provider   Provider
	batchSize  int
	maxRetries int
	pause      time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
	logger     *slog.Logger
}

// NewClient creates an embedding client over the given provider.
// batchSize and maxRetries fall back to defaults when non-positive.
func NewClient(provider Provider, batchSize, maxRetries int) *Client {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	return &Client{
		provider:   provider,
		batchSize:  batchSize,
		maxRetries: maxRetries,
		pause:      batchPause,
		sleep:      sleepContext,
		logger:     slog.Default(),
	}
}

// Embed generates embeddings for texts, dropping blank entries. One provider
// call is issued per batch of batchSize texts. Any failure returns with no
// partial results.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	logger := contextutil.LoggerFromContext(ctx)

	cleaned := make([]string, 0, len(texts))
	for _, text := range texts {
		if strings.TrimSpace(text) != "" {
			cleaned = append(cleaned, text)
		}
	}
	if len(cleaned) == 0 {
		logger.WarnContext(ctx, "no valid texts to embed after cleaning", "input_count", len(texts))
		return nil, nil
	}

	embeddings := make([][]float32, 0, len(cleaned))
	totalBatches := (len(cleaned) + c.batchSize - 1) / c.batchSize

	for start := 0; start < len(cleaned); start += c.batchSize {
		end := min(start+c.batchSize, len(cleaned))
		batch := cleaned[start:end]
		batchNum := start/c.batchSize + 1

		logger.DebugContext(ctx, "embedding batch", "batch", batchNum, "total_batches", totalBatches, "size", len(batch))

		vectors, err := c.embedBatch(ctx, batch)
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, vectors...)

		if end < len(cleaned) {
			if err := c.sleep(ctx, c.pause); err != nil {
				return nil, err
			}
		}
	}

	logger.InfoContext(ctx, "embeddings generated", "count", len(embeddings), "batches", totalBatches)
	return embeddings, nil
}

// EmbedOne embeds a single text and unwraps the singleton result.
func (c *Client) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding produced for text")
	}
	return embeddings[0], nil
}

// embedBatch issues one provider call for a batch, retrying the same batch
// on rate limits with 2^attempt seconds of backoff. The loop is bounded by
// maxRetries; exhaustion and fatal errors both surface as ErrUnavailable.
func (c *Client) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	logger := contextutil.LoggerFromContext(ctx)

	for attempt := 0; ; attempt++ {
		vectors, err := c.provider.CreateEmbeddings(ctx, batch)
		if err == nil {
			if len(vectors) != len(batch) {
				return nil, fmt.Errorf("%w: expected %d embeddings, got %d", ErrUnavailable, len(batch), len(vectors))
			}
			return vectors, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !isRateLimit(err) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("%w: rate limited after %d retries: %v", ErrUnavailable, c.maxRetries, err)
		}

		wait := time.Duration(1<<uint(attempt)) * time.Second
		logger.WarnContext(ctx, "rate limit hit, retrying batch", "wait", wait, "attempt", attempt+1, "max_retries", c.maxRetries)
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
}

// sleepContext pauses for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
