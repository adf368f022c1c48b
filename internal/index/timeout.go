package index

import (
	"context"
	"time"
)

// timeoutIndex bounds every call against the wrapped backend.
type timeoutIndex struct {
	inner   Index
	timeout time.Duration
}

// WithTimeout wraps an Index so each operation runs under its own deadline.
// A non-positive timeout returns the index unchanged.
func WithTimeout(inner Index, timeout time.Duration) Index {
	if timeout <= 0 {
		return inner
	}
	return &timeoutIndex{inner: inner, timeout: timeout}
}

func (t *timeoutIndex) Upsert(ctx context.Context, chunks []ChunkRecord) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Upsert(ctx, chunks)
}

func (t *timeoutIndex) DeleteByChapter(ctx context.Context, chapterID string) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.DeleteByChapter(ctx, chapterID)
}

func (t *timeoutIndex) Search(ctx context.Context, req SearchRequest) ([]Row, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Search(ctx, req)
}

func (t *timeoutIndex) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Ping(ctx)
}
