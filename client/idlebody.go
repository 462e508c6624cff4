package client

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"
)

// idleBody bounds every Read on a response body by d. The timer only runs
// while a Read is blocked, so time spent by the consumer between reads is
// never counted and a steady transfer may run for as long as it needs.
// When a Read stalls past d, cancel aborts the request and the read fails
// with [ErrReadTimeout].
type idleBody struct {
	rc      io.ReadCloser
	d       time.Duration
	timer   *time.Timer
	expired atomic.Bool
}

func newIdleBody(rc io.ReadCloser, d time.Duration, cancel context.CancelFunc) *idleBody {
	b := &idleBody{rc: rc, d: d}
	b.timer = time.AfterFunc(d, func() {
		b.expired.Store(true)
		cancel()
	})
	b.timer.Stop()

	return b
}

func (b *idleBody) Read(p []byte) (int, error) {
	if b.expired.Load() {
		return 0, b.timeoutErr()
	}

	b.timer.Reset(b.d)
	n, err := b.rc.Read(p)
	b.timer.Stop()

	if err != nil && b.expired.Load() {
		return n, b.timeoutErr()
	}

	return n, err
}

func (b *idleBody) Close() error {
	b.timer.Stop()
	return b.rc.Close()
}

func (b *idleBody) timeoutErr() error {
	return fmt.Errorf("%w: no data for %s: %w", ErrReadTimeout, b.d, context.DeadlineExceeded)
}
