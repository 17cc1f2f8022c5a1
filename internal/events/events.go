// Package events defines the messages the ledger emits after a record
// is stored. Transports live in internal/amqp and internal/events/kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"expenses/internal/core"
)

const TypeExpenseCreated = "expense.created"

var ErrInvalidMessage = errors.New("invalid expense message")

// Handler processes one decoded event. Returning an error that wraps
// ErrInvalidMessage drops the message; other errors ask for redelivery.
type Handler func(ctx context.Context, msg *ExpenseCreated) error

// ExpenseCreated carries a full copy of the record so consumers never
// have to read the ledger store.
type ExpenseCreated struct {
	Type        string    `json:"type"`
	ID          string    `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Amount      string    `json:"amount"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Date        string    `json:"date"`
	CreatedAt   string    `json:"created_at"`
	PublishedAt time.Time `json:"published_at"`
}

func NewExpenseCreated(rec core.ExpenseRecord, now time.Time) *ExpenseCreated {
	return &ExpenseCreated{
		Type:        TypeExpenseCreated,
		ID:          rec.ID,
		AmountCents: rec.AmountCents,
		Amount:      rec.Amount(),
		Category:    rec.Category,
		Description: rec.Description,
		Date:        rec.Date,
		CreatedAt:   rec.CreatedAt,
		PublishedAt: now,
	}
}

// Record rebuilds the ledger record carried by the message.
func (m *ExpenseCreated) Record() core.ExpenseRecord {
	return core.ExpenseRecord{
		ID:          m.ID,
		AmountCents: m.AmountCents,
		Category:    m.Category,
		Description: m.Description,
		Date:        m.Date,
		CreatedAt:   m.CreatedAt,
	}
}

func (m *ExpenseCreated) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ExpenseCreatedFromJSON decodes and checks a message body.
func ExpenseCreatedFromJSON(data []byte) (*ExpenseCreated, error) {
	var msg ExpenseCreated
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, errors.Join(ErrInvalidMessage, err)
	}
	if msg.Type != TypeExpenseCreated {
		return nil, errors.Join(ErrInvalidMessage, errors.New("unexpected type "+msg.Type))
	}
	if err := msg.Record().Validate(); err != nil {
		return nil, errors.Join(ErrInvalidMessage, err)
	}
	return &msg, nil
}
