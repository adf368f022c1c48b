package index

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestNewQdrantIndexURLParsing(t *testing.T) {
	tests := []struct {
		name    string
		urlStr  string
		wantErr bool
	}{
		{name: "valid URL", urlStr: "http://localhost:6333", wantErr: false},
		{name: "custom port", urlStr: "http://qdrant.internal:9000", wantErr: false},
		{name: "no port", urlStr: "http://localhost", wantErr: false},
		{name: "invalid URL", urlStr: "://invalid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := NewQdrantIndex(tt.urlStr, "chunks")
			if tt.wantErr {
				if err == nil {
					t.Error("NewQdrantIndex() should fail for invalid URL")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewQdrantIndex() failed: %v", err)
			}
			if idx.collection != "chunks" {
				t.Errorf("collection = %q, want chunks", idx.collection)
			}
		})
	}
}

func TestPayloadHelpers(t *testing.T) {
	payload := qdrant.NewValueMap(map[string]any{
		"content":        "Some chunk text.",
		"chunk_index":    3,
		"chapter_number": 7,
		"section_title":  "",
	})

	if got := payloadString(payload, "content"); got != "Some chunk text." {
		t.Errorf("payloadString(content) = %q", got)
	}
	if got := payloadInt(payload, "chunk_index"); got != 3 {
		t.Errorf("payloadInt(chunk_index) = %d, want 3", got)
	}
	if got := payloadInt(payload, "chapter_number"); got != 7 {
		t.Errorf("payloadInt(chapter_number) = %d, want 7", got)
	}
	if got := payloadString(payload, "missing"); got != "" {
		t.Errorf("payloadString(missing) = %q, want empty", got)
	}
	if got := payloadInt(payload, "missing"); got != 0 {
		t.Errorf("payloadInt(missing) = %d, want 0", got)
	}
}

func TestNullString(t *testing.T) {
	if ns := nullString(""); ns.Valid {
		t.Error("empty string should map to NULL")
	}
	if ns := nullString("abc"); !ns.Valid || ns.String != "abc" {
		t.Errorf("nullString(abc) = %+v", ns)
	}
}
