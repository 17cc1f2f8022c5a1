package core

import (
	"testing"
	"time"
)

func TestParseSortOrder(t *testing.T) {
	cases := map[string]SortOrder{
		"":          SortDateAsc,
		"date_asc":  SortDateAsc,
		"date_desc": SortDateDesc,
		"DATE_DESC": SortDateAsc,
		"bogus":     SortDateAsc,
	}
	for in, want := range cases {
		if got := ParseSortOrder(in); got != want {
			t.Fatalf("ParseSortOrder(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatCreatedAt(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2024, 3, 1, 13, 4, 5, 120000000, loc)
	if got := FormatCreatedAt(in); got != "2024-03-01T12:04:05.120000Z" {
		t.Fatalf("unexpected created_at %q", got)
	}
	whole := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := FormatCreatedAt(whole); got != "2024-03-01T12:00:00.000000Z" {
		t.Fatalf("expected fixed fraction width, got %q", got)
	}
}

func TestExpenseRecordValidate(t *testing.T) {
	good := ExpenseRecord{ID: "a", AmountCents: 0, Category: "Food", Date: "2024-01-01", CreatedAt: "2024-01-01T00:00:00.000000Z"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []ExpenseRecord{
		{AmountCents: 1, Category: "c", Date: "d", CreatedAt: "x"},
		{ID: "a", AmountCents: -1, Category: "c", Date: "d", CreatedAt: "x"},
		{ID: "a", AmountCents: 1, Date: "d", CreatedAt: "x"},
		{ID: "a", AmountCents: 1, Category: "c", CreatedAt: "x"},
		{ID: "a", AmountCents: 1, Category: "c", Date: "d"},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSortRecords(t *testing.T) {
	recs := []ExpenseRecord{
		{ID: "b", Date: "2024-01-02", CreatedAt: "2024-01-05T00:00:00.000000Z"},
		{ID: "a", Date: "2024-01-01", CreatedAt: "2024-01-09T00:00:00.000000Z"},
		{ID: "d", Date: "2024-01-02", CreatedAt: "2024-01-03T00:00:00.000000Z"},
		{ID: "c", Date: "2024-01-02", CreatedAt: "2024-01-03T00:00:00.000000Z"},
	}

	SortRecords(recs, SortDateAsc)
	if got := ids(recs); got != "acdb" {
		t.Fatalf("asc order = %s", got)
	}

	SortRecords(recs, SortDateDesc)
	if got := ids(recs); got != "bdca" {
		t.Fatalf("desc order = %s", got)
	}
}

func TestFilterByCategory(t *testing.T) {
	recs := []ExpenseRecord{{ID: "a", Category: "Food"}, {ID: "b", Category: "food"}, {ID: "c", Category: "Food"}}
	if got := ids(FilterByCategory(recs, "Food")); got != "ac" {
		t.Fatalf("filter is case sensitive, got %s", got)
	}
	if got := ids(FilterByCategory(recs, "")); got != "abc" {
		t.Fatalf("empty filter keeps all, got %s", got)
	}
	if got := FilterByCategory(recs, "Travel"); len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestSummarize(t *testing.T) {
	recs := []ExpenseRecord{
		{Category: "Travel", AmountCents: 10},
		{Category: "Food", AmountCents: 20},
		{Category: "Travel", AmountCents: 33},
	}
	s := Summarize(recs)
	if s.Total != "0.63" {
		t.Fatalf("total = %s", s.Total)
	}
	if len(s.Categories) != 2 || s.Categories[0].Category != "Food" || s.Categories[1].Total != "0.43" || s.Categories[1].Count != 2 {
		t.Fatalf("unexpected categories %+v", s.Categories)
	}
}

func ids(recs []ExpenseRecord) string {
	var out string
	for _, r := range recs {
		out += r.ID
	}
	return out
}
