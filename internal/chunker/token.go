package chunker

import (
	"strings"
	"unicode"
)

// Tokenizer splits text into tokens for size accounting and overlap seeding.
// Concatenating the tokens returned by Encode reproduces the input text
// exactly, so a trailing window of tokens can be decoded back into the
// overlap seed for the next chunk.
type Tokenizer struct {
	encoding string
}

// NewTokenizer creates a tokenizer for the given encoding name.
// The encoding name is kept as a config label; all encodings currently map
// to the same word/punctuation segmentation.
func NewTokenizer(encoding string) *Tokenizer {
	return &Tokenizer{encoding: encoding}
}

// Encoding returns the encoding name this tokenizer was created with.
func (t *Tokenizer) Encoding() string {
	return t.encoding
}

// Encode splits text into tokens. A token is an optional run of whitespace
// followed by either a run of letters/digits or a single other rune.
// Trailing whitespace becomes its own final token.
func (t *Tokenizer) Encode(text string) []string {
	if text == "" {
		return nil
	}

	var tokens []string
	var pending strings.Builder
	var word strings.Builder

	flushWord := func() {
		if word.Len() > 0 {
			tokens = append(tokens, pending.String()+word.String())
			pending.Reset()
			word.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			flushWord()
			pending.WriteRune(r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word.WriteRune(r)
		default:
			flushWord()
			tokens = append(tokens, pending.String()+string(r))
			pending.Reset()
		}
	}
	flushWord()
	if pending.Len() > 0 {
		tokens = append(tokens, pending.String())
	}

	return tokens
}

// Decode reassembles tokens into the original text.
func (t *Tokenizer) Decode(tokens []string) string {
	return strings.Join(tokens, "")
}

// CountTokens returns the number of tokens in text.
func (t *Tokenizer) CountTokens(text string) int {
	return len(t.Encode(text))
}
