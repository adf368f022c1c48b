package chunker

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrConfig is returned when a chunking configuration is invalid.
var ErrConfig = errors.New("invalid chunk configuration")

// ChunkConfig holds the tunable parameters for text chunking.
// All sizes are token counts.
type ChunkConfig struct {
	TargetChunkSize int
	MaxChunkSize    int
	Overlap         int
	EncodingName    string
}

// DefaultChunkConfig returns the standard chunking parameters.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		TargetChunkSize: 600,
		MaxChunkSize:    800,
		Overlap:         100,
		EncodingName:    "word",
	}
}

// TextChunk represents a chunk of source text with metadata.
type TextChunk struct {
	Content      string
	ChunkIndex   int
	SectionTitle string
	TokenCount   int
	StartChar    int
	EndChar      int
	Metadata     map[string]any
}

// Chunker splits raw text into token-bounded, overlapping chunks.
type Chunker struct {
	cfg       ChunkConfig
	tokenizer *Tokenizer
}

var (
	paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)
	markdownHeaderRe = regexp.MustCompile(`^#{1,6}\s+.+$`)
	numberedHeaderRe = regexp.MustCompile(`^(\d+\.)+\s+.+$`)
	allCapsHeaderRe  = regexp.MustCompile(`^[A-Z][A-Z\s]+$`)
	keywordHeaderRe  = regexp.MustCompile(`(?i)^(Introduction|Conclusion|Summary|Abstract|References):?$`)
	sentenceSplitRe  = regexp.MustCompile(`([.!?])\s+`)
)

// New creates a Chunker, validating the configuration.
func New(cfg ChunkConfig) (*Chunker, error) {
	if cfg.TargetChunkSize <= 0 || cfg.MaxChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk sizes must be positive", ErrConfig)
	}
	if cfg.TargetChunkSize > cfg.MaxChunkSize {
		return nil, fmt.Errorf("%w: target size %d exceeds max size %d", ErrConfig, cfg.TargetChunkSize, cfg.MaxChunkSize)
	}
	if cfg.Overlap < 0 || cfg.Overlap >= cfg.TargetChunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than target size %d", ErrConfig, cfg.Overlap, cfg.TargetChunkSize)
	}
	if cfg.EncodingName == "" {
		cfg.EncodingName = "word"
	}
	return &Chunker{
		cfg:       cfg,
		tokenizer: NewTokenizer(cfg.EncodingName),
	}, nil
}

// Config returns the chunker's configuration.
func (c *Chunker) Config() ChunkConfig {
	return c.cfg
}

// CountTokens returns the token count of text under the chunker's encoding.
func (c *Chunker) CountTokens(text string) int {
	return c.tokenizer.CountTokens(text)
}

// SplitParagraphs splits text on blank lines, dropping empty entries.
func (c *Chunker) SplitParagraphs(text string) []string {
	parts := paragraphSplitRe.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}
	return paragraphs
}

// DetectSectionHeader reports whether a paragraph looks like a section
// header and returns the header text if so.
func (c *Chunker) DetectSectionHeader(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	if markdownHeaderRe.MatchString(trimmed) ||
		numberedHeaderRe.MatchString(trimmed) ||
		allCapsHeaderRe.MatchString(trimmed) ||
		keywordHeaderRe.MatchString(trimmed) {
		return trimmed, true
	}

	// Short lines without terminal punctuation are treated as headers.
	if len(trimmed) < 100 && !strings.HasSuffix(trimmed, ".") &&
		!strings.HasSuffix(trimmed, "!") && !strings.HasSuffix(trimmed, "?") {
		return trimmed, true
	}

	return "", false
}

// ChunkText splits text into overlapping chunks. sectionHint seeds the
// active section title carried onto chunks until a header is detected.
func (c *Chunker) ChunkText(text string, sectionHint string) []TextChunk {
	var chunks []TextChunk
	paragraphs := c.SplitParagraphs(text)
	if len(paragraphs) == 0 {
		return chunks
	}

	current := ""
	startChar := 0
	chunkIndex := 0
	section := sectionHint

	for _, para := range paragraphs {
		if header, ok := c.DetectSectionHeader(para); ok && len(para) < 200 {
			section = header
			// Fold the header into the running chunk when it fits.
			test := joinParagraphs(current, para)
			if c.CountTokens(test) <= c.cfg.MaxChunkSize {
				current = test
				continue
			}
		}

		test := joinParagraphs(current, para)
		testTokens := c.CountTokens(test)

		switch {
		case testTokens <= c.cfg.TargetChunkSize:
			current = test

		case testTokens <= c.cfg.MaxChunkSize:
			// Over target but within max: take the paragraph and finalize.
			current = test
			chunks = append(chunks, c.buildChunk(current, chunkIndex, startChar, section))
			chunkIndex++

			overlap := c.overlapText(current)
			startChar += len(current) - len(overlap)
			current = overlap

		default:
			if current != "" {
				chunks = append(chunks, c.buildChunk(current, chunkIndex, startChar, section))
				chunkIndex++

				overlap := c.overlapText(current)
				startChar += len(current) - len(overlap)
				current = joinParagraphs(overlap, para)
			} else {
				current = para
			}

			// A single paragraph beyond max gets sub-split at sentences.
			if c.CountTokens(current) > c.cfg.MaxChunkSize {
				for _, sent := range c.splitBySentences(para) {
					chunks = append(chunks, c.buildChunk(sent, chunkIndex, startChar, section))
					chunkIndex++
					startChar += len(sent)
				}
				current = ""
			}
		}
	}

	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, c.buildChunk(current, chunkIndex, startChar, section))
	}

	return chunks
}

// overlapText returns the trailing Overlap tokens of text decoded back to a
// string, used to seed the next chunk.
func (c *Chunker) overlapText(text string) string {
	tokens := c.tokenizer.Encode(text)
	if len(tokens) <= c.cfg.Overlap {
		return text
	}
	return c.tokenizer.Decode(tokens[len(tokens)-c.cfg.Overlap:])
}

// splitBySentences packs sentences greedily up to MaxChunkSize.
func (c *Chunker) splitBySentences(text string) []string {
	sentences := splitSentences(text)
	var groups []string
	current := ""

	for _, sentence := range sentences {
		test := sentence
		if current != "" {
			test = current + " " + sentence
		}
		if c.CountTokens(test) <= c.cfg.MaxChunkSize {
			current = test
		} else {
			if current != "" {
				groups = append(groups, current)
			}
			current = sentence
		}
	}
	if current != "" {
		groups = append(groups, current)
	}

	return groups
}

func (c *Chunker) buildChunk(content string, chunkIndex, startChar int, section string) TextChunk {
	trimmed := strings.TrimSpace(content)
	return TextChunk{
		Content:      trimmed,
		ChunkIndex:   chunkIndex,
		SectionTitle: section,
		TokenCount:   c.CountTokens(trimmed),
		StartChar:    startChar,
		EndChar:      startChar + len(content),
		Metadata: map[string]any{
			"has_section_title": section != "",
		},
	}
}

func joinParagraphs(current, para string) string {
	if current == "" {
		return para
	}
	return current + "\n\n" + para
}

// splitSentences splits on sentence-terminating punctuation followed by
// whitespace, keeping the punctuation with the preceding sentence.
func splitSentences(text string) []string {
	marked := sentenceSplitRe.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	return sentences
}
