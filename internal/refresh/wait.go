package refresh

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/facebookgo/clock"
)

// Wait defaults. The timeout is fixed; a slow interpreter surfaces as a
// refresh failure rather than a hang.
const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultWaitTimeout  = 1000 * time.Millisecond
)

// TimeoutError is returned when the output file does not appear in time.
type TimeoutError struct {
	Path string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for file: %s", e.Path)
}

// Waiter polls for a file to exist.
type Waiter struct {
	Clock    clock.Clock
	Interval time.Duration
	Timeout  time.Duration
	// Exists reports whether path is present. Defaults to os.Stat.
	Exists func(path string) bool
}

// NewWaiter returns a waiter with the default interval and timeout.
func NewWaiter(clk clock.Clock) *Waiter {
	if clk == nil {
		clk = clock.New()
	}
	return &Waiter{Clock: clk, Interval: DefaultPollInterval, Timeout: DefaultWaitTimeout, Exists: fileExists}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Wait returns nil once path exists, a *TimeoutError after Timeout, or the
// cancellation cause of ctx.
func (w *Waiter) Wait(ctx context.Context, path string) error {
	clk := w.Clock
	if clk == nil {
		clk = clock.New()
	}
	exists := w.Exists
	if exists == nil {
		exists = fileExists
	}
	interval := w.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	timeout := w.Timeout
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	deadline := clk.Now().Add(timeout)
	for {
		if exists(path) {
			return nil
		}
		if clk.Now().After(deadline) {
			return &TimeoutError{Path: path}
		}
		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-clk.After(interval):
		}
	}
}
