package services

import (
	"encoding/json"
	"strconv"

	"expenses/internal/core"
)

// CreateRequest is a submission as received from a client. A nil field
// was absent (or null) in the submission.
type CreateRequest struct {
	ID          *string
	Amount      *string
	Category    *string
	Description *string
	Date        *string

	// first field whose submitted value was not a scalar
	invalid string
}

// Request field names as they appear on the wire.
const (
	FieldID          = "id"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldDate        = "date"
)

// NewCreateRequest builds a request from decoded body fields. Values
// may be strings, json.Number, float64, bools or nil. Objects and
// arrays are kept as an invalid field and reported by Create after the
// missing field checks.
func NewCreateRequest(fields map[string]any) CreateRequest {
	var req CreateRequest
	assign := func(name string, dst **string) {
		raw, ok := fields[name]
		if !ok {
			return
		}
		s, ok, scalar := coerce(raw)
		if !scalar {
			if req.invalid == "" {
				req.invalid = name
			}
			empty := ""
			*dst = &empty
			return
		}
		if ok {
			*dst = &s
		}
	}
	assign(FieldID, &req.ID)
	assign(FieldAmount, &req.Amount)
	assign(FieldCategory, &req.Category)
	assign(FieldDescription, &req.Description)
	assign(FieldDate, &req.Date)
	return req
}

// coerce turns a scalar into its string form. present is false for nil.
func coerce(v any) (s string, present bool, scalar bool) {
	switch t := v.(type) {
	case nil:
		return "", false, true
	case string:
		return t, true, true
	case json.Number:
		return t.String(), true, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true, true
	case int64:
		return strconv.FormatInt(t, 10), true, true
	case int:
		return strconv.Itoa(t), true, true
	case bool:
		return strconv.FormatBool(t), true, true
	default:
		return "", false, false
	}
}

// Strings is a convenience for building requests in code.
func Strings(id, amount, category, description, date string) CreateRequest {
	req := CreateRequest{Amount: &amount, Category: &category, Date: &date}
	if id != "" {
		req.ID = &id
	}
	if description != "" {
		req.Description = &description
	}
	return req
}

// normalize validates the request and converts it into a record
// without id or created_at.
func (r CreateRequest) normalize() (core.ExpenseRecord, error) {
	if r.Amount == nil {
		return core.ExpenseRecord{}, core.MissingField(FieldAmount)
	}
	if r.Category == nil || (*r.Category == "" && r.invalid != FieldCategory) {
		return core.ExpenseRecord{}, core.MissingField(FieldCategory)
	}
	if r.Date == nil || (*r.Date == "" && r.invalid != FieldDate) {
		return core.ExpenseRecord{}, core.MissingField(FieldDate)
	}

	switch r.invalid {
	case "":
	case FieldAmount:
		return core.ExpenseRecord{}, &core.ValidationError{Field: FieldAmount, Message: core.MsgInvalidAmount}
	default:
		return core.ExpenseRecord{}, core.InvalidField(r.invalid)
	}

	amount, err := core.ParseAmount(*r.Amount)
	if err != nil {
		return core.ExpenseRecord{}, err
	}

	rec := core.ExpenseRecord{
		AmountCents: amount.Cents,
		Category:    *r.Category,
		Date:        *r.Date,
	}
	if r.ID != nil {
		rec.ID = *r.ID
	}
	if r.Description != nil {
		rec.Description = *r.Description
	}
	return rec, nil
}
