package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"expenses/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "expenses.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func rec(id, category, date, createdAt string, cents int64) core.ExpenseRecord {
	return core.ExpenseRecord{
		ID:          id,
		AmountCents: cents,
		Category:    category,
		Description: "desc " + id,
		Date:        date,
		CreatedAt:   createdAt,
	}
}

func TestSQLiteInsertAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := rec("a", "Food", "2024-01-01", "2024-01-01T00:00:00.000000Z", 1050)
	if err := repo.Insert(ctx, want); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := repo.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteDuplicateKeepsOriginal(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	orig := rec("a", "Food", "2024-01-01", "2024-01-01T00:00:00.000000Z", 100)
	if err := repo.Insert(ctx, orig); err != nil {
		t.Fatalf("insert: %v", err)
	}
	dup := rec("a", "Other", "2030-01-01", "2030-01-01T00:00:00.000000Z", 999)
	if err := repo.Insert(ctx, dup); !errors.Is(err, core.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	got, _ := repo.Get(ctx, "a")
	if got != orig {
		t.Fatalf("duplicate insert changed the record: %+v", got)
	}
}

func TestSQLiteListFilterAndOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, r := range []core.ExpenseRecord{
		rec("a", "Food", "2024-01-03", "2024-01-01T00:00:01.000000Z", 10),
		rec("b", "Travel", "2024-01-01", "2024-01-01T00:00:02.000000Z", 20),
		rec("c", "Food", "2024-01-02", "2024-01-01T00:00:03.000000Z", 33),
		rec("d", "Food", "2024-01-02", "2024-01-01T00:00:04.000000Z", 1),
	} {
		if err := repo.Insert(ctx, r); err != nil {
			t.Fatalf("insert %s: %v", r.ID, err)
		}
	}

	cases := []struct {
		filter core.ListFilter
		want   string
	}{
		{core.ListFilter{}, "bcda"},
		{core.ListFilter{Sort: core.SortDateAsc}, "bcda"},
		{core.ListFilter{Sort: core.SortDateDesc}, "adcb"},
		{core.ListFilter{Category: "Food"}, "cda"},
		{core.ListFilter{Category: "food"}, ""},
	}
	for _, tc := range cases {
		got, err := repo.List(ctx, tc.filter)
		if err != nil {
			t.Fatalf("list %+v: %v", tc.filter, err)
		}
		var ids string
		for _, r := range got {
			ids += r.ID
		}
		if ids != tc.want {
			t.Fatalf("list %+v = %q, want %q", tc.filter, ids, tc.want)
		}
	}
}

func TestSQLiteConcurrentInsertSameID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- repo.Insert(ctx, rec("same", fmt.Sprintf("c%d", i), "2024-01-01", "2024-01-01T00:00:00.000000Z", 1))
		}(i)
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, core.ErrDuplicateID):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("expected exactly one successful insert, got %d", ok)
	}
}

func TestSQLiteReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.db")
	repo, err := NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Insert(context.Background(), rec("a", "Food", "2024-01-01", "2024-01-01T00:00:00.000000Z", 1)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	repo.Close()

	repo, err = NewSQLiteRepository(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	if _, err := repo.Get(context.Background(), "a"); err != nil {
		t.Fatalf("record lost after reopen: %v", err)
	}
	if err := repo.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
