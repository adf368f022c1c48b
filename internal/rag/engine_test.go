package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	embmocks "github.com/mhmd-249/socratic-tutor/internal/embedding/mocks"
	"github.com/mhmd-249/socratic-tutor/internal/index"
	idxmocks "github.com/mhmd-249/socratic-tutor/internal/index/mocks"
)

func newTestEngine(t *testing.T, rows []index.Row, searchErr error) Engine {
	t.Helper()
	ctrl := gomock.NewController(t)
	embedder := embmocks.NewMockEmbedder(ctrl)
	idx := idxmocks.NewMockIndex(ctrl)

	embedder.EXPECT().EmbedOne(gomock.Any(), gomock.Any()).Return([]float32{0.1}, nil).AnyTimes()
	idx.EXPECT().Search(gomock.Any(), gomock.Any()).Return(rows, searchErr).AnyTimes()

	retriever, err := NewHybridRetriever(embedder, idx, 0.7, 0.3)
	if err != nil {
		t.Fatalf("NewHybridRetriever: %v", err)
	}
	return NewEngine(retriever, NewReranker(DefaultRerankWeights()))
}

func TestBuildContext(t *testing.T) {
	rows := []index.Row{
		{
			ChunkID:       "a",
			Content:       "Recursion means a function calls itself.",
			SemanticScore: 0.95,
			KeywordScore:  0.8,
			BookTitle:     "Algorithms",
			ChapterNumber: 2,
			ChapterTitle:  "Recursion",
		},
		{
			ChunkID:       "b",
			Content:       "Loops repeat statements.",
			SemanticScore: 0.85,
			KeywordScore:  0.5,
			BookTitle:     "Algorithms",
			ChapterNumber: 1,
			ChapterTitle:  "Basics",
		},
	}
	e := newTestEngine(t, rows, nil)

	resp, err := e.BuildContext(context.Background(), ContextRequest{Query: "recursion"})
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if len(resp.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(resp.Candidates))
	}
	if resp.Candidates[0].ChunkID != "a" {
		t.Errorf("expected chunk a first, got %q", resp.Candidates[0].ChunkID)
	}
	if !strings.Contains(resp.Context, "[Algorithms - Chapter 2: Recursion]") {
		t.Errorf("context missing attribution:\n%s", resp.Context)
	}
}

func TestBuildContextTruncatesToTopK(t *testing.T) {
	rows := make([]index.Row, 0, 4)
	for _, id := range []string{"a", "b", "c", "d"} {
		rows = append(rows, index.Row{
			ChunkID: id, Content: "shared topic text",
			SemanticScore: 0.9, KeywordScore: 0.9,
			BookTitle: "B", ChapterNumber: 1, ChapterTitle: "C",
		})
	}
	e := newTestEngine(t, rows, nil)

	resp, err := e.BuildContext(context.Background(), ContextRequest{Query: "topic", TopK: 2})
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if len(resp.Candidates) != 2 {
		t.Fatalf("expected top_k 2 candidates, got %d", len(resp.Candidates))
	}
}

func TestBuildContextNoMatches(t *testing.T) {
	rows := []index.Row{{ChunkID: "weak", SemanticScore: 0.1, KeywordScore: 0.1}}
	e := newTestEngine(t, rows, nil)

	resp, err := e.BuildContext(context.Background(), ContextRequest{Query: "unrelated"})
	if err != nil {
		t.Fatalf("BuildContext: %v", err)
	}
	if resp.Context != NoContextSentinel {
		t.Errorf("got %q, want sentinel", resp.Context)
	}
	if len(resp.Candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(resp.Candidates))
	}
}

func TestBuildContextRetrievalFailure(t *testing.T) {
	e := newTestEngine(t, nil, errors.New("index down"))

	_, err := e.BuildContext(context.Background(), ContextRequest{Query: "q"})
	if !errors.Is(err, ErrRetrievalUnavailable) {
		t.Fatalf("expected ErrRetrievalUnavailable, got %v", err)
	}
}
