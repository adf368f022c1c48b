package rag

import (
	"fmt"
	"strings"
)

// NoContextSentinel is returned as the assembled context when no candidate
// survives retrieval and reranking.
const NoContextSentinel = "No relevant context found in the course materials."

const (
	contextHeader = "## Relevant Context from Course Materials\n"
	// Rough budget conversion; content is plain English prose.
	charsPerToken = 4
)

// AssembleContext formats the candidates into a single attributed context
// block, greedily adding sources until the next one would exceed the token
// budget. With no candidates it returns NoContextSentinel.
func AssembleContext(candidates []Candidate, maxTokens int) string {
	if len(candidates) == 0 {
		return NoContextSentinel
	}

	budget := maxTokens * charsPerToken
	var b strings.Builder
	b.WriteString(contextHeader)

	for i, c := range candidates {
		block := sourceBlock(i+1, c)
		if b.Len()+len(block) > budget {
			break
		}
		b.WriteString(block)
	}
	return b.String()
}

// sourceBlock renders one candidate with its rank, score, and attribution
// line. The section part is omitted when the chunk has no section title.
func sourceBlock(rank int, c Candidate) string {
	attribution := fmt.Sprintf("[%s - Chapter %d: %s", c.BookTitle, c.ChapterNumber, c.ChapterTitle)
	if c.SectionTitle != "" {
		attribution += " - " + c.SectionTitle
	}
	attribution += "]"
	return fmt.Sprintf("\n### Source %d (Score: %.2f)\n%s\n%s\n", rank, c.CombinedScore, attribution, c.Content)
}
