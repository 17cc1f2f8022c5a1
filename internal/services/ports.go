package services

import (
	"context"

	"expenses/internal/core"
)

// Ports for outbound adapters.
type (
	// ExpenseStore is the durable ledger table.
	//
	// Insert must be atomic per id: when a record with the same id
	// already exists it stores nothing and returns core.ErrDuplicateID.
	// Get returns core.ErrNotFound for unknown ids.
	ExpenseStore interface {
		Insert(ctx context.Context, rec core.ExpenseRecord) error
		Get(ctx context.Context, id string) (core.ExpenseRecord, error)
		List(ctx context.Context, filter core.ListFilter) ([]core.ExpenseRecord, error)
		Ping(ctx context.Context) error
		Close() error
	}

	// EventPublisher announces newly created records.
	EventPublisher interface {
		PublishExpenseCreated(ctx context.Context, rec core.ExpenseRecord) error
		Close() error
	}

	// RecordCache holds records by id. Records never change once stored,
	// so entries never need invalidating.
	RecordCache interface {
		Get(key string) (core.ExpenseRecord, bool)
		Set(key string, rec core.ExpenseRecord)
	}
)
