package receiver

import (
	"context"
	"sync"
	"time"
)

// latch is a single-fire readiness barrier. It is released at most
// once, by one specific predetermined update, and waited on at most
// once with a bounded timeout. A timeout stops the wait without
// failing anything; the releasing update may still arrive later.
type latch struct {
	once sync.Once
	ch   chan struct{}
}

func newLatch() *latch {
	return &latch{ch: make(chan struct{})}
}

// release satisfies the latch. Safe to call more than once.
func (l *latch) release() {
	l.once.Do(func() { close(l.ch) })
}

// wait blocks until the latch is released, the timeout elapses or ctx
// is done. It reports whether the latch was released.
func (l *latch) wait(ctx context.Context, timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-l.ch:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}
