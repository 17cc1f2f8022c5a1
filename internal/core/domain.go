package core

import (
	"errors"
	"fmt"
	"time"
)

const (
	SortDateAsc  SortOrder = "date_asc"
	SortDateDesc SortOrder = "date_desc"
)

const (
	OutcomeCreated       Outcome = "created"
	OutcomeAlreadyExists Outcome = "already_exists"
	OutcomeConflict      Outcome = "conflict"
)

// CreatedAtLayout always renders six fractional digits so that the
// string form sorts the same way as the instant it encodes.
const CreatedAtLayout = "2006-01-02T15:04:05.000000Z"

type (
	SortOrder string

	// Outcome classifies the result of a create call.
	Outcome string

	// ExpenseRecord is one immutable ledger entry.
	ExpenseRecord struct {
		ID          string
		AmountCents int64
		Category    string
		Description string
		Date        string // caller supplied, not format-checked
		CreatedAt   string // UTC, CreatedAtLayout
	}

	ListFilter struct {
		Category string // exact match, empty means all
		Sort     SortOrder
	}
)

var (
	ErrDuplicateID = errors.New("duplicate expense id")
	ErrNotFound    = errors.New("expense not found")
	ErrConflict    = errors.New("conflict")
)

// ValidationError reports a rejected submission. Message is safe to
// return to clients as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MissingField reports a required field that was not submitted.
func MissingField(name string) *ValidationError {
	return &ValidationError{Field: name, Message: "missing field: " + name}
}

// InvalidField reports a field whose value has an unusable type.
func InvalidField(name string) *ValidationError {
	return &ValidationError{Field: name, Message: "invalid field: " + name}
}

// ParseSortOrder maps a query value onto a known order. Anything other
// than date_desc falls back to the default ascending order.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortDateDesc {
		return SortDateDesc
	}
	return SortDateAsc
}

// FormatCreatedAt renders t in UTC with a trailing Z.
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}

// Amount renders the record amount with two fractional digits.
func (r ExpenseRecord) Amount() string {
	return FormatCents(r.AmountCents)
}

func (r ExpenseRecord) Validate() error {
	if r.ID == "" {
		return MissingField("id")
	}
	if r.AmountCents < 0 {
		return &ValidationError{Field: "amount", Message: MsgNegativeAmount}
	}
	if r.Category == "" {
		return MissingField("category")
	}
	if r.Date == "" {
		return MissingField("date")
	}
	if r.CreatedAt == "" {
		return fmt.Errorf("expense %s: empty created_at", r.ID)
	}
	return nil
}
