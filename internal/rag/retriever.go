package rag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/mhmd-249/socratic-tutor/internal/contextutil"
	"github.com/mhmd-249/socratic-tutor/internal/embedding"
	"github.com/mhmd-249/socratic-tutor/internal/index"
)

const (
	// DefaultTopK is used when a query does not specify a result count.
	DefaultTopK = 5
	// DefaultSemanticWeight and DefaultKeywordWeight are the standard
	// score-fusion weights.
	DefaultSemanticWeight = 0.7
	DefaultKeywordWeight  = 0.3

	weightTolerance = 0.01
)

// HybridRetriever issues one fused semantic+lexical query against the index
// and maps the rows into scored candidates.
type HybridRetriever struct {
	embedder       embedding.Embedder
	idx            index.Index
	semanticWeight float64
	keywordWeight  float64
}

// NewHybridRetriever creates a retriever. The weights must sum to 1.0
// (within a small tolerance) or construction fails with ErrWeights.
func NewHybridRetriever(embedder embedding.Embedder, idx index.Index, semanticWeight, keywordWeight float64) (*HybridRetriever, error) {
	if math.Abs(semanticWeight+keywordWeight-1.0) > weightTolerance {
		return nil, fmt.Errorf("%w: got %.3f + %.3f", ErrWeights, semanticWeight, keywordWeight)
	}
	return &HybridRetriever{
		embedder:       embedder,
		idx:            idx,
		semanticWeight: semanticWeight,
		keywordWeight:  keywordWeight,
	}, nil
}

// Retrieve embeds the query, runs the fused search with 2x over-fetch, and
// returns candidates at or above the similarity threshold, sorted by
// combined score descending. An empty result is a normal outcome; only
// embed or index failures return an error.
func (r *HybridRetriever) Retrieve(ctx context.Context, q Query) ([]Candidate, error) {
	logger := contextutil.LoggerFromContext(ctx)

	topK := q.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	poolSize := topK * 2

	logger.InfoContext(ctx, "retrieving chunks",
		"top_k", topK,
		"chapter_id", q.ChapterID,
		"threshold", q.SimilarityThreshold,
	)

	// The query vector must exist before the fused query runs.
	vector, err := r.embedder.EmbedOne(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", ErrRetrievalUnavailable, err)
	}

	rows, err := r.idx.Search(ctx, index.SearchRequest{
		Vector:       vector,
		LexicalQuery: q.Text,
		ChapterID:    q.ChapterID,
		Limit:        poolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: index query: %v", ErrRetrievalUnavailable, err)
	}

	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		combined := r.semanticWeight*row.SemanticScore + r.keywordWeight*row.KeywordScore
		if combined < q.SimilarityThreshold {
			continue
		}
		candidates = append(candidates, Candidate{
			ChunkID:       row.ChunkID,
			Content:       row.Content,
			SectionTitle:  row.SectionTitle,
			ChunkIndex:    row.ChunkIndex,
			SemanticScore: row.SemanticScore,
			KeywordScore:  row.KeywordScore,
			CombinedScore: combined,
			ChapterID:     row.ChapterID,
			ChapterTitle:  row.ChapterTitle,
			ChapterNumber: row.ChapterNumber,
			BookTitle:     row.BookTitle,
			BookAuthor:    row.BookAuthor,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CombinedScore > candidates[j].CombinedScore
	})
	if len(candidates) > poolSize {
		candidates = candidates[:poolSize]
	}

	logger.InfoContext(ctx, "retrieval completed",
		"candidates", len(candidates),
		"fetched_rows", len(rows),
	)
	return candidates, nil
}
