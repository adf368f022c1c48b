package ingest

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor converts chapter markdown into plain text using goldmark
// AST parsing. Headings survive as "## Title" lines so downstream section
// detection keeps working; formatting-only markup is stripped.
type MarkdownExtractor struct {
	parser goldmark.Markdown
}

// NewMarkdownExtractor creates a new markdown extractor.
func NewMarkdownExtractor() *MarkdownExtractor {
	return &MarkdownExtractor{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// ExtractText parses the markdown and returns plain text with blocks
// separated by blank lines.
func (e *MarkdownExtractor) ExtractText(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	reader := text.NewReader(content)
	doc := e.parser.Parser().Parse(reader)

	var b strings.Builder

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			writeBlockBreak(&b)
			b.WriteString(strings.Repeat("#", node.Level))
			b.WriteString(" ")
			b.WriteString(extractNodeText(node, content))
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			// List item paragraphs are handled by the ListItem case.
			if _, inItem := node.Parent().(*ast.ListItem); inItem {
				return ast.WalkContinue, nil
			}
			writeBlockBreak(&b)
			b.WriteString(extractNodeText(node, content))
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			if _, nested := node.Parent().Parent().(*ast.ListItem); !nested {
				writeLineBreak(&b)
			} else {
				b.WriteString("\n")
			}
			b.WriteString("- ")
			b.WriteString(extractNodeText(node, content))
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			writeBlockBreak(&b)
			writeCodeLines(&b, node.Lines(), content)
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			writeBlockBreak(&b)
			writeCodeLines(&b, node.Lines(), content)
			return ast.WalkSkipChildren, nil

		case *ast.Blockquote:
			writeBlockBreak(&b)
			b.WriteString(extractNodeText(node, content))
			return ast.WalkSkipChildren, nil

		default:
			// Table extension nodes are matched by kind name since their
			// types live outside the core ast package.
			kindName := n.Kind().String()
			if strings.Contains(kindName, "TableRow") || strings.Contains(kindName, "TableHeader") {
				writeLineBreak(&b)
				b.WriteString(extractTableRow(n, content))
				return ast.WalkSkipChildren, nil
			}
			return ast.WalkContinue, nil
		}
	})

	return strings.TrimSpace(b.String())
}

// writeBlockBreak ensures a blank line before the next block.
func writeBlockBreak(b *strings.Builder) {
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
}

// writeLineBreak ensures the next write starts on its own line.
func writeLineBreak(b *strings.Builder) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
}

func writeCodeLines(b *strings.Builder, lines *text.Segments, content []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.WriteString(strings.TrimRight(string(line.Value(content)), "\n"))
		if i < lines.Len()-1 {
			b.WriteString("\n")
		}
	}
}

// extractNodeText collects the text content of a node and its children.
func extractNodeText(n ast.Node, content []byte) string {
	var textBuilder strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			textBuilder.Write(v.Segment.Value(content))
			if v.SoftLineBreak() || v.HardLineBreak() {
				textBuilder.WriteString(" ")
			}
		case *ast.String:
			textBuilder.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(textBuilder.String())
}

// extractTableRow renders one table row with pipe-separated cells.
func extractTableRow(row ast.Node, content []byte) string {
	var rowBuilder strings.Builder
	cellCount := 0

	_ = ast.Walk(row, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if strings.Contains(node.Kind().String(), "TableCell") {
			if cellCount > 0 {
				rowBuilder.WriteString(" | ")
			}
			rowBuilder.WriteString(extractNodeText(node, content))
			cellCount++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return rowBuilder.String()
}
