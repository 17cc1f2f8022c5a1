package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"expenses/internal/events"
)

// Source delivers events to a handler until ctx is done.
type Source func(ctx context.Context, handler events.Handler) error

// Runner keeps a Source running, restarting it after failures.
type Runner struct {
	source  Source
	handler events.Handler
	backoff time.Duration

	mu      sync.Mutex
	running bool
}

func NewRunner(source Source, handler events.Handler, backoff time.Duration) *Runner {
	if backoff <= 0 {
		backoff = time.Second
	}
	return &Runner{source: source, handler: handler, backoff: backoff}
}

// Run blocks until ctx is done. It returns nil on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("runner is already running")
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	for {
		err := r.source(ctx, r.handler)
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			slog.InfoContext(ctx, "Mirror runner stopped")
			return nil
		}
		slog.ErrorContext(ctx, "Event source failed, restarting", "error", err, "backoff", r.backoff)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(r.backoff):
		}
	}
}

func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
