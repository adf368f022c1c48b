package rag

import (
	"strings"
	"testing"
)

func TestAssembleContextEmpty(t *testing.T) {
	got := AssembleContext(nil, DefaultMaxContextTokens)
	if got != NoContextSentinel {
		t.Fatalf("got %q, want sentinel", got)
	}
}

func TestAssembleContextFormat(t *testing.T) {
	candidates := []Candidate{
		{
			Content:       "A stack is a LIFO structure.",
			SectionTitle:  "Stacks",
			CombinedScore: 0.92,
			BookTitle:     "Data Structures",
			ChapterNumber: 3,
			ChapterTitle:  "Linear Structures",
		},
		{
			Content:       "Queues are FIFO.",
			CombinedScore: 0.81,
			BookTitle:     "Data Structures",
			ChapterNumber: 3,
			ChapterTitle:  "Linear Structures",
		},
	}

	got := AssembleContext(candidates, DefaultMaxContextTokens)

	if !strings.HasPrefix(got, "## Relevant Context from Course Materials\n") {
		t.Errorf("missing header, got prefix %q", got[:min(len(got), 50)])
	}
	if !strings.Contains(got, "### Source 1 (Score: 0.92)\n[Data Structures - Chapter 3: Linear Structures - Stacks]\nA stack is a LIFO structure.\n") {
		t.Errorf("first source block malformed:\n%s", got)
	}
	// Second candidate has no section title, so the attribution ends
	// at the chapter title.
	if !strings.Contains(got, "### Source 2 (Score: 0.81)\n[Data Structures - Chapter 3: Linear Structures]\nQueues are FIFO.\n") {
		t.Errorf("second source block malformed:\n%s", got)
	}
}

func TestAssembleContextBudget(t *testing.T) {
	big := strings.Repeat("word ", 200)
	candidates := []Candidate{
		{Content: big, CombinedScore: 0.9, BookTitle: "B", ChapterNumber: 1, ChapterTitle: "C"},
		{Content: big, CombinedScore: 0.8, BookTitle: "B", ChapterNumber: 1, ChapterTitle: "C"},
		{Content: big, CombinedScore: 0.7, BookTitle: "B", ChapterNumber: 1, ChapterTitle: "C"},
	}

	// One block is ~1050 chars; a budget of 300 tokens (1200 chars)
	// fits exactly one.
	got := AssembleContext(candidates, 300)

	if !strings.Contains(got, "Source 1") {
		t.Errorf("expected first source to fit:\n%s", got)
	}
	if strings.Contains(got, "Source 2") {
		t.Errorf("second source should be dropped by the budget:\n%s", got)
	}
}

func TestAssembleContextBudgetSkipsAll(t *testing.T) {
	candidates := []Candidate{
		{Content: strings.Repeat("x", 500), CombinedScore: 0.9, BookTitle: "B", ChapterNumber: 1, ChapterTitle: "C"},
	}

	// 10-token budget (40 chars) cannot fit the block, only the header
	// remains.
	got := AssembleContext(candidates, 10)
	if got != contextHeader {
		t.Fatalf("expected bare header, got %q", got)
	}
}
