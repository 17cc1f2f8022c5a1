package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"expenses/internal/core"
	"expenses/internal/events"
	"expenses/internal/sheets/memory"
)

type flakyMirror struct {
	*memory.Mirror
	appendErr error
	hasCalls  int
}

func (f *flakyMirror) AppendRecord(ctx context.Context, rec core.ExpenseRecord) (string, error) {
	if f.appendErr != nil {
		return "", f.appendErr
	}
	return f.Mirror.AppendRecord(ctx, rec)
}

func (f *flakyMirror) HasRecord(ctx context.Context, id string) (bool, error) {
	f.hasCalls++
	return f.Mirror.HasRecord(ctx, id)
}

func event(id string) *events.ExpenseCreated {
	return events.NewExpenseCreated(core.ExpenseRecord{
		ID:          id,
		AmountCents: 1050,
		Category:    "Food",
		Date:        "2024-01-01",
		CreatedAt:   "2024-01-01T00:00:00.000000Z",
	}, time.Now())
}

func TestMirrorWorkerAppendsOnce(t *testing.T) {
	m := &flakyMirror{Mirror: memory.New()}
	w := NewMirrorWorker(m, 16)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := w.HandleExpenseCreated(ctx, event("a")); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}
	if rows := m.Rows(); len(rows) != 1 || rows[0][4] != "10.50" {
		t.Fatalf("expected one mirrored row, got %v", rows)
	}
	if m.hasCalls != 1 {
		t.Fatalf("redeliveries should be answered from the seen cache, got %d sheet reads", m.hasCalls)
	}
	if st := w.Stats(); st.Mirrored != 1 || st.Skipped != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestMirrorWorkerSkipsRowsAlreadyInSheet(t *testing.T) {
	m := &flakyMirror{Mirror: memory.New()}
	ctx := context.Background()
	if _, err := m.Mirror.AppendRecord(ctx, event("a").Record()); err != nil {
		t.Fatal(err)
	}

	w := NewMirrorWorker(m, 16)
	if err := w.HandleExpenseCreated(ctx, event("a")); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(m.Rows()) != 1 {
		t.Fatalf("row duplicated after restart: %v", m.Rows())
	}
}

func TestMirrorWorkerErrors(t *testing.T) {
	ctx := context.Background()

	boom := errors.New("quota exceeded")
	w := NewMirrorWorker(&flakyMirror{Mirror: memory.New(), appendErr: boom}, 16)
	if err := w.HandleExpenseCreated(ctx, event("a")); !errors.Is(err, boom) || errors.Is(err, events.ErrInvalidMessage) {
		t.Fatalf("expected retryable error, got %v", err)
	}

	bad := event("a")
	bad.Category = ""
	if err := w.HandleExpenseCreated(ctx, bad); !errors.Is(err, events.ErrInvalidMessage) {
		t.Fatalf("expected invalid message, got %v", err)
	}
	if st := w.Stats(); st.Failed != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestRunnerRestartsSource(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	source := func(ctx context.Context, h events.Handler) error {
		if calls.Add(1) < 3 {
			return errors.New("connection refused")
		}
		cancel()
		<-ctx.Done()
		return ctx.Err()
	}

	r := NewRunner(source, func(context.Context, *events.ExpenseCreated) error { return nil }, time.Millisecond)
	if err := r.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 source starts, got %d", calls.Load())
	}
	if r.IsRunning() {
		t.Fatal("runner should report stopped")
	}
}
