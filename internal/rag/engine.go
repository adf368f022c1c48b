package rag

import (
	"context"
	"fmt"

	"github.com/mhmd-249/socratic-tutor/internal/contextutil"
)

const (
	// DefaultMaxContextTokens bounds the assembled context size.
	DefaultMaxContextTokens = 4000
	// DefaultSimilarityThreshold filters weak retrieval matches.
	DefaultSimilarityThreshold = 0.7
)

// ContextRequest describes one context-assembly query.
type ContextRequest struct {
	Query               string  `json:"query"`
	ChapterID           string  `json:"chapter_id,omitempty"`
	TopK                int     `json:"top_k,omitempty"`
	MaxTokens           int     `json:"max_tokens,omitempty"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
}

// ContextResponse carries the assembled context block plus the candidates
// it was built from, in final rank order.
type ContextResponse struct {
	Context    string      `json:"context"`
	Candidates []Candidate `json:"candidates"`
}

// Engine is the query-side surface: retrieve, rerank, and assemble.
type Engine interface {
	BuildContext(ctx context.Context, req ContextRequest) (*ContextResponse, error)
}

// engine wires the hybrid retriever and reranker behind the Engine surface.
type engine struct {
	retriever *HybridRetriever
	reranker  *Reranker
}

// NewEngine creates the query engine.
func NewEngine(retriever *HybridRetriever, reranker *Reranker) Engine {
	return &engine{retriever: retriever, reranker: reranker}
}

func (e *engine) BuildContext(ctx context.Context, req ContextRequest) (*ContextResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	topK := req.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxContextTokens
	}
	threshold := req.SimilarityThreshold
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	candidates, err := e.retriever.Retrieve(ctx, Query{
		Text:                req.Query,
		ChapterID:           req.ChapterID,
		TopK:                topK,
		SimilarityThreshold: threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("build context: %w", err)
	}

	candidates = e.reranker.Rerank(candidates, req.Query)
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	assembled := AssembleContext(candidates, maxTokens)
	logger.InfoContext(ctx, "context assembled",
		"sources", len(candidates),
		"context_chars", len(assembled),
	)
	return &ContextResponse{Context: assembled, Candidates: candidates}, nil
}
