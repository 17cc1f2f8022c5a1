// Package storage is the SQLite ledger store.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"expenses/internal/core"

	_ "modernc.org/sqlite"
)

const (
	insertExpense = `INSERT INTO expenses (id, amount_cents, category, description, date, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO NOTHING`

	selectExpense = `SELECT id, amount_cents, category, description, date, created_at
FROM expenses WHERE id = ?`

	listExpensesAsc = `SELECT id, amount_cents, category, description, date, created_at
FROM expenses WHERE (? = '' OR category = ?)
ORDER BY date ASC, created_at ASC, id ASC`

	listExpensesDesc = `SELECT id, amount_cents, category, description, date, created_at
FROM expenses WHERE (? = '' OR category = ?)
ORDER BY date DESC, created_at DESC, id DESC`
)

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath
// and applies pending migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Insert stores rec. ON CONFLICT DO NOTHING makes the duplicate check
// and the write a single statement.
func (r *SQLiteRepository) Insert(ctx context.Context, rec core.ExpenseRecord) error {
	res, err := r.db.ExecContext(ctx, insertExpense,
		rec.ID, rec.AmountCents, rec.Category, rec.Description, rec.Date, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	if n == 0 {
		return core.ErrDuplicateID
	}

	slog.DebugContext(ctx, "Expense saved to SQLite",
		"id", rec.ID,
		"amount_cents", rec.AmountCents,
		"category", rec.Category)
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (core.ExpenseRecord, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx, selectExpense, id))
	if err == sql.ErrNoRows {
		return core.ExpenseRecord{}, core.ErrNotFound
	}
	if err != nil {
		return core.ExpenseRecord{}, fmt.Errorf("get expense %s: %w", id, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) List(ctx context.Context, filter core.ListFilter) ([]core.ExpenseRecord, error) {
	query := listExpensesAsc
	if filter.Sort == core.SortDateDesc {
		query = listExpensesDesc
	}

	rows, err := r.db.QueryContext(ctx, query, filter.Category, filter.Category)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var out []core.ExpenseRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (core.ExpenseRecord, error) {
	var rec core.ExpenseRecord
	var desc sql.NullString
	err := s.Scan(&rec.ID, &rec.AmountCents, &rec.Category, &desc, &rec.Date, &rec.CreatedAt)
	rec.Description = desc.String
	return rec, err
}
