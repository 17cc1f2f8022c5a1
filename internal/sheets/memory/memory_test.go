package memory

import (
	"context"
	"testing"

	"expenses/internal/core"
)

func TestMirrorAppendAndHas(t *testing.T) {
	m := New()
	ctx := context.Background()
	rec := core.ExpenseRecord{ID: "a", AmountCents: 5, Category: "Food", Date: "2024-01-01", CreatedAt: "2024-01-01T00:00:00.000000Z"}

	ref, err := m.AppendRecord(ctx, rec)
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	if ok, _ := m.HasRecord(ctx, "a"); !ok {
		t.Fatal("expected a to be mirrored")
	}
	if ok, _ := m.HasRecord(ctx, "b"); ok {
		t.Fatal("b was never mirrored")
	}
	rows := m.Rows()
	if len(rows) != 1 || rows[0][4] != "0.05" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if _, err := m.AppendRecord(ctx, core.ExpenseRecord{}); err == nil {
		t.Fatal("expected validation error")
	}
}
