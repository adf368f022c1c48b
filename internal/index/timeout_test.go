package index

import (
	"context"
	"testing"
	"time"
)

type deadlineProbe struct {
	Index
	hadDeadline bool
}

func (p *deadlineProbe) Ping(ctx context.Context) error {
	_, p.hadDeadline = ctx.Deadline()
	return nil
}

func TestWithTimeout(t *testing.T) {
	probe := &deadlineProbe{}
	idx := WithTimeout(probe, 2*time.Second)

	if err := idx.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if !probe.hadDeadline {
		t.Error("expected a deadline on the wrapped call")
	}
}

func TestWithTimeoutDisabled(t *testing.T) {
	probe := &deadlineProbe{}
	if got := WithTimeout(probe, 0); got != Index(probe) {
		t.Error("non-positive timeout should return the index unchanged")
	}
}
