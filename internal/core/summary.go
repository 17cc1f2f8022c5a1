package core

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryTotal is the exact sum of the amounts recorded under one category.
type CategoryTotal struct {
	Category string
	Count    int
	Total    string
}

// Summary groups records by category for the overview endpoint.
type Summary struct {
	Categories []CategoryTotal // sorted by category name
	Total      string
}

// Summarize totals records per category.
func Summarize(records []ExpenseRecord) Summary {
	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int)
	for _, r := range records {
		sums[r.Category] = sums[r.Category].Add(decimal.New(r.AmountCents, -2))
		counts[r.Category]++
	}

	out := Summary{
		Categories: make([]CategoryTotal, 0, len(sums)),
		Total:      SumAmounts(records),
	}
	for name, sum := range sums {
		out.Categories = append(out.Categories, CategoryTotal{
			Category: name,
			Count:    counts[name],
			Total:    sum.StringFixed(2),
		})
	}
	sort.Slice(out.Categories, func(i, j int) bool {
		return out.Categories[i].Category < out.Categories[j].Category
	})
	return out
}
