// Package core holds the ledger domain: expense records, exact money
// handling and the validation errors shared by every adapter.
//
// Amounts travel as decimal text and are stored as integer cents. All
// arithmetic goes through shopspring/decimal; nothing here touches float64.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	MsgInvalidAmount  = "invalid amount"
	MsgNegativeAmount = "amount must be non-negative"

	// maxAmountInput bounds the text accepted by ParseAmount.
	maxAmountInput = 64
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// Money is an amount in integer cents.
type Money struct {
	Cents int64
}

// Decimal returns the exact value in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// FormatCents renders cents as a decimal string, 1050 -> "10.50".
func FormatCents(cents int64) string {
	return Money{Cents: cents}.String()
}

// ParseAmount converts decimal text to cents.
//
// The input must be an exact base-10 number (scientific notation is
// accepted). It is multiplied by 100 and rounded half away from zero:
//
//	ParseAmount("10.50")  -> 1050
//	ParseAmount("0.005")  -> 1
//	ParseAmount("10.125") -> 1013
//
// Unparseable or out of range input yields a ValidationError with
// MsgInvalidAmount; negative input yields MsgNegativeAmount.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxAmountInput {
		return Money{}, &ValidationError{Field: "amount", Message: MsgInvalidAmount}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, &ValidationError{Field: "amount", Message: MsgInvalidAmount}
	}
	if d.IsNegative() {
		return Money{}, &ValidationError{Field: "amount", Message: MsgNegativeAmount}
	}
	if d.IsZero() {
		return Money{}, nil
	}

	// d < 10^magnitude. Checking it first keeps huge exponents from
	// reaching the rescale in Round.
	magnitude := int64(d.NumDigits()) + int64(d.Exponent())
	if magnitude > 19 {
		return Money{}, &ValidationError{Field: "amount", Message: MsgInvalidAmount}
	}
	if magnitude < -2 {
		// below 0.001, rounds to zero cents
		return Money{}, nil
	}

	cents := d.Shift(2).Round(0)
	if cents.GreaterThan(maxCents) {
		return Money{}, &ValidationError{Field: "amount", Message: MsgInvalidAmount}
	}
	return Money{Cents: cents.IntPart()}, nil
}

// SumAmounts returns the exact total of the records' amounts, rendered
// like FormatCents. An empty slice totals "0.00".
func SumAmounts(records []ExpenseRecord) string {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(decimal.New(r.AmountCents, -2))
	}
	return total.StringFixed(2)
}
