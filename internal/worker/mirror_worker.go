// Package worker mirrors expense events into a spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"expenses/internal/cache"
	"expenses/internal/events"
	"expenses/internal/sheets"
)

// MirrorWorker appends one sheet row per expense.created event.
//
// Brokers deliver at least once. Ids mirrored by this process are
// remembered in a bounded LRU; ids it has not seen are checked against
// the sheet before appending.
type MirrorWorker struct {
	mirror sheets.RecordMirror
	seen   *cache.LRUCache[struct{}]

	mirrored atomic.Int64
	skipped  atomic.Int64
	failed   atomic.Int64
}

type Stats struct {
	Mirrored int64
	Skipped  int64
	Failed   int64
}

func NewMirrorWorker(mirror sheets.RecordMirror, seenSize int) *MirrorWorker {
	return &MirrorWorker{
		mirror: mirror,
		seen:   cache.NewLRUCache[struct{}](seenSize, 0),
	}
}

// HandleExpenseCreated is an events.Handler.
func (w *MirrorWorker) HandleExpenseCreated(ctx context.Context, msg *events.ExpenseCreated) error {
	rec := msg.Record()
	if err := rec.Validate(); err != nil {
		w.failed.Add(1)
		return errors.Join(events.ErrInvalidMessage, err)
	}

	if _, ok := w.seen.Get(rec.ID); ok {
		w.skipped.Add(1)
		slog.DebugContext(ctx, "Skipping redelivered expense", "id", rec.ID)
		return nil
	}

	exists, err := w.mirror.HasRecord(ctx, rec.ID)
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("check mirror for %s: %w", rec.ID, err)
	}
	if exists {
		w.seen.Add(rec.ID, struct{}{})
		w.skipped.Add(1)
		slog.InfoContext(ctx, "Expense already mirrored", "id", rec.ID)
		return nil
	}

	ref, err := w.mirror.AppendRecord(ctx, rec)
	if err != nil {
		w.failed.Add(1)
		return fmt.Errorf("mirror expense %s: %w", rec.ID, err)
	}
	if !w.seen.Add(rec.ID, struct{}{}) {
		slog.WarnContext(ctx, "Expense mirrored by a concurrent delivery", "id", rec.ID)
	}
	w.mirrored.Add(1)

	slog.InfoContext(ctx, "Expense mirrored",
		"id", rec.ID,
		"amount_cents", rec.AmountCents,
		"category", rec.Category,
		"row", ref)
	return nil
}

func (w *MirrorWorker) Stats() Stats {
	return Stats{
		Mirrored: w.mirrored.Load(),
		Skipped:  w.skipped.Load(),
		Failed:   w.failed.Load(),
	}
}
