package index

import (
	"context"
	"testing"
)

func TestPostgresSearchRejectsNonPositiveLimit(t *testing.T) {
	idx := &PostgresIndex{}

	for _, limit := range []int{0, -1} {
		_, err := idx.Search(context.Background(), SearchRequest{
			LexicalQuery: "photosynthesis",
			Limit:        limit,
		})
		if err == nil {
			t.Errorf("Search() with limit %d should fail", limit)
		}
	}
}
