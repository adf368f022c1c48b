package chunker

import (
	"strings"
	"testing"
)

func TestTokenizerRoundTrip(t *testing.T) {
	tok := NewTokenizer("word")

	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "single word", text: "hello"},
		{name: "sentence", text: "The quick brown fox jumps over the lazy dog."},
		{name: "punctuation", text: "Wait - really?! Yes, (really)."},
		{name: "newlines", text: "First paragraph.\n\nSecond paragraph."},
		{name: "trailing whitespace", text: "ends with spaces   "},
		{name: "leading whitespace", text: "  starts with spaces"},
		{name: "unicode", text: "Café naïve über"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := tok.Encode(tt.text)
			if got := tok.Decode(tokens); got != tt.text {
				t.Errorf("Decode(Encode(%q)) = %q, want original", tt.text, got)
			}
		})
	}
}

func TestTokenizerCountTokens(t *testing.T) {
	tok := NewTokenizer("word")

	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "empty", text: "", want: 0},
		{name: "one word", text: "hello", want: 1},
		{name: "three words", text: "one two three", want: 3},
		{name: "word with period", text: "done.", want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tok.CountTokens(tt.text); got != tt.want {
				t.Errorf("CountTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenizerTrailingWindowDecodes(t *testing.T) {
	tok := NewTokenizer("word")
	text := "alpha beta gamma delta epsilon"

	tokens := tok.Encode(text)
	if len(tokens) != 5 {
		t.Fatalf("expected 5 tokens, got %d: %v", len(tokens), tokens)
	}

	tail := tok.Decode(tokens[len(tokens)-2:])
	if !strings.HasSuffix(text, tail) {
		t.Errorf("decoded tail %q is not a suffix of %q", tail, text)
	}
	if strings.TrimSpace(tail) != "delta epsilon" {
		t.Errorf("tail = %q, want trailing two words", tail)
	}
}
