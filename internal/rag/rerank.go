package rag

import (
	"sort"
	"strings"
)

const positionBiasFloor = 0.9

// RerankWeights control how much each signal contributes to the final
// candidate score.
type RerankWeights struct {
	Base        float64
	TermOverlap float64
	Position    float64
}

// DefaultRerankWeights returns the standard blend: the fused retrieval
// score dominates, with small corrections for query-term overlap and
// chunk position.
func DefaultRerankWeights() RerankWeights {
	return RerankWeights{Base: 0.8, TermOverlap: 0.15, Position: 0.05}
}

// Reranker reorders retrieval candidates with lightweight lexical signals.
// It is deterministic and performs no I/O.
type Reranker struct {
	weights RerankWeights
}

// NewReranker creates a reranker with the given signal weights.
func NewReranker(weights RerankWeights) *Reranker {
	return &Reranker{weights: weights}
}

// Rerank recomputes each candidate's combined score as a blend of its
// retrieval score, the fraction of query terms appearing in the content,
// and a position bias favoring chunks earlier in a chapter. The input
// slice is returned reordered; ties keep their prior relative order.
func (r *Reranker) Rerank(candidates []Candidate, query string) []Candidate {
	terms := uniqueTerms(query)
	for i := range candidates {
		overlap := termOverlap(candidates[i].Content, terms)
		position := positionBias(candidates[i].ChunkIndex)
		candidates[i].CombinedScore = r.weights.Base*candidates[i].CombinedScore +
			r.weights.TermOverlap*overlap +
			r.weights.Position*position
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].CombinedScore > candidates[j].CombinedScore
	})
	return candidates
}

// uniqueTerms lowercases the query and splits it on whitespace, dropping
// duplicates while keeping first-seen order.
func uniqueTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]struct{}, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		terms = append(terms, f)
	}
	return terms
}

// termOverlap returns the fraction of terms found as substrings of the
// content, in [0, 1]. An empty term set scores 0.
func termOverlap(content string, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	lowered := strings.ToLower(content)
	matched := 0
	for _, t := range terms {
		if strings.Contains(lowered, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

// positionBias decays by 0.01 per chunk position, floored at 0.9 so late
// chunks are never heavily penalized.
func positionBias(chunkIndex int) float64 {
	bias := 1.0 - 0.01*float64(chunkIndex)
	if bias < positionBiasFloor {
		return positionBiasFloor
	}
	return bias
}
