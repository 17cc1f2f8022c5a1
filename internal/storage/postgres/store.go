// Package postgres is the ledger store for deployments with a shared
// PostgreSQL server.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"expenses/internal/core"
)

const uniqueViolation = "23505"

const (
	insertExpense = `INSERT INTO expenses (id, amount_cents, category, description, date, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING`

	selectExpense = `SELECT id, amount_cents, category, description, date, created_at
FROM expenses WHERE id = $1`

	listExpenses = `SELECT id, amount_cents, category, description, date, created_at
FROM expenses WHERE ($1 = '' OR category = $1)`

	orderAsc  = ` ORDER BY date ASC, created_at ASC, id ASC`
	orderDesc = ` ORDER BY date DESC, created_at DESC, id DESC`
)

type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle. Use Open to also run migrations.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to url, verifies the connection and migrates the schema.
func Open(ctx context.Context, url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := RunMigrations(url); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return NewStore(db), nil
}

func (s *Store) Insert(ctx context.Context, rec core.ExpenseRecord) error {
	res, err := s.db.ExecContext(ctx, insertExpense,
		rec.ID, rec.AmountCents, rec.Category, rec.Description, rec.Date, rec.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return core.ErrDuplicateID
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	if n == 0 {
		return core.ErrDuplicateID
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (core.ExpenseRecord, error) {
	var rec core.ExpenseRecord
	err := s.db.QueryRowContext(ctx, selectExpense, id).
		Scan(&rec.ID, &rec.AmountCents, &rec.Category, &rec.Description, &rec.Date, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ExpenseRecord{}, core.ErrNotFound
	}
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return rec, nil
}

func (s *Store) List(ctx context.Context, filter core.ListFilter) ([]core.ExpenseRecord, error) {
	query := listExpenses + orderAsc
	if filter.Sort == core.SortDateDesc {
		query = listExpenses + orderDesc
	}

	rows, err := s.db.QueryContext(ctx, query, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		var rec core.ExpenseRecord
		if err := rows.Scan(&rec.ID, &rec.AmountCents, &rec.Category, &rec.Description, &rec.Date, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}
