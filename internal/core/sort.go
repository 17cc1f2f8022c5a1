package core

import "sort"

// SortRecords orders records in place.
//
// date_asc sorts by date, created_at, id ascending. date_desc reverses
// every key. Dates compare as plain strings.
func SortRecords(records []ExpenseRecord, order SortOrder) {
	less := func(a, b ExpenseRecord) bool {
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return a.ID < b.ID
	}
	if order == SortDateDesc {
		sort.SliceStable(records, func(i, j int) bool { return less(records[j], records[i]) })
		return
	}
	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
}

// FilterByCategory keeps records whose category equals category exactly.
// An empty category keeps everything.
func FilterByCategory(records []ExpenseRecord, category string) []ExpenseRecord {
	if category == "" {
		return records
	}
	out := make([]ExpenseRecord, 0, len(records))
	for _, r := range records {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}
