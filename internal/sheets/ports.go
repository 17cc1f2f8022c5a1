// Package sheets defines the spreadsheet mirror written by the worker.
package sheets

import (
	"context"

	"expenses/internal/core"
)

// Header is the first row of a mirror sheet.
var Header = []string{"id", "date", "category", "description", "amount", "created_at"}

// Ports for outbound adapters.
type (
	// RecordMirror appends ledger records to an external sheet.
	RecordMirror interface {
		// AppendRecord writes one row and returns a reference to it.
		AppendRecord(ctx context.Context, rec core.ExpenseRecord) (rowRef string, err error)
		// HasRecord reports whether a row with id already exists.
		HasRecord(ctx context.Context, id string) (bool, error)
	}
)

// Row renders rec in Header order. Amounts keep their exact text.
func Row(rec core.ExpenseRecord) []string {
	return []string{rec.ID, rec.Date, rec.Category, rec.Description, rec.Amount(), rec.CreatedAt}
}
