package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

// ExpenseService is the ledger: it validates submissions, stores them
// idempotently by id and serves filtered, sorted reads with exact totals.
type ExpenseService struct {
	store     ExpenseStore
	publisher EventPublisher
	cache     RecordCache
	newID     core.IDGenerator
	now       core.Clock
	logger    *applog.Logger
	audit     *applog.StructuredLogger

	created   atomic.Int64
	replayed  atomic.Int64
	conflicts atomic.Int64
}

// Option customises an ExpenseService.
type Option func(*ExpenseService)

// WithPublisher announces created records. Nil disables publishing.
func WithPublisher(p EventPublisher) Option {
	return func(s *ExpenseService) { s.publisher = p }
}

// WithRecordCache serves Get from c before reaching the store.
func WithRecordCache(c RecordCache) Option {
	return func(s *ExpenseService) { s.cache = c }
}

func WithIDGenerator(gen core.IDGenerator) Option {
	return func(s *ExpenseService) { s.newID = gen }
}

func WithClock(clock core.Clock) Option {
	return func(s *ExpenseService) { s.now = clock }
}

func WithLogger(l *applog.Logger) Option {
	return func(s *ExpenseService) { s.logger = l }
}

// ListResult is the response of List.
type ListResult struct {
	Expenses []core.ExpenseRecord
	Total    string
}

// Counters reports create outcomes since start.
type Counters struct {
	Created   int64
	Replayed  int64
	Conflicts int64
}

func NewExpenseService(store ExpenseStore, opts ...Option) *ExpenseService {
	s := &ExpenseService{
		store: store,
		newID: core.NewUUID,
		now:   core.UTCNow,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentLedger)
	}
	s.audit = applog.NewStructuredLogger(s.logger)
	return s
}

// Create validates req and stores it.
//
// A new id yields OutcomeCreated. Re-submitting an existing id returns
// the stored record unchanged with OutcomeAlreadyExists, whatever the
// other fields say. If the store reports the id taken but cannot
// produce the record, the result is OutcomeConflict and core.ErrConflict.
// Validation failures are *core.ValidationError; anything else is a
// store failure.
func (s *ExpenseService) Create(ctx context.Context, req CreateRequest) (core.ExpenseRecord, core.Outcome, error) {
	rec, err := req.normalize()
	if err != nil {
		return core.ExpenseRecord{}, "", err
	}
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	rec.CreatedAt = core.FormatCreatedAt(s.now())

	err = s.store.Insert(ctx, rec)
	if err == nil {
		s.created.Add(1)
		s.remember(rec)
		s.audit.LogExpenseStored(ctx, rec, core.OutcomeCreated)
		s.publish(ctx, rec)
		return rec, core.OutcomeCreated, nil
	}
	if !errors.Is(err, core.ErrDuplicateID) {
		return core.ExpenseRecord{}, "", fmt.Errorf("insert expense: %w", err)
	}

	existing, err := s.store.Get(ctx, rec.ID)
	switch {
	case errors.Is(err, core.ErrNotFound):
		s.conflicts.Add(1)
		s.logger.WarnContext(ctx, "Expense id taken but not readable", applog.FieldExpenseID, rec.ID)
		return core.ExpenseRecord{}, core.OutcomeConflict, core.ErrConflict
	case err != nil:
		return core.ExpenseRecord{}, "", fmt.Errorf("lookup existing expense: %w", err)
	}

	s.replayed.Add(1)
	s.remember(existing)
	s.audit.LogExpenseStored(ctx, existing, core.OutcomeAlreadyExists)
	return existing, core.OutcomeAlreadyExists, nil
}

// List returns records matching filter in the requested order along
// with the exact sum of their amounts.
func (s *ExpenseService) List(ctx context.Context, filter core.ListFilter) (ListResult, error) {
	filter.Sort = core.ParseSortOrder(string(filter.Sort))

	records, err := s.store.List(ctx, filter)
	if err != nil {
		return ListResult{}, fmt.Errorf("list expenses: %w", err)
	}

	// Adapters may push the filter and ordering down; applying them
	// again here keeps the result independent of the backend.
	records = core.FilterByCategory(records, filter.Category)
	core.SortRecords(records, filter.Sort)
	if records == nil {
		records = []core.ExpenseRecord{}
	}

	s.logger.DebugContext(ctx, "Listed expenses",
		applog.FieldCategory, filter.Category,
		applog.FieldSort, string(filter.Sort),
		applog.FieldCount, len(records))

	return ListResult{Expenses: records, Total: core.SumAmounts(records)}, nil
}

// Get returns one record by id, or core.ErrNotFound.
func (s *ExpenseService) Get(ctx context.Context, id string) (core.ExpenseRecord, error) {
	if s.cache != nil {
		if rec, ok := s.cache.Get(id); ok {
			return rec, nil
		}
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.ExpenseRecord{}, err
		}
		return core.ExpenseRecord{}, fmt.Errorf("get expense: %w", err)
	}
	s.remember(rec)
	return rec, nil
}

// Summary totals records per category, optionally restricted to one.
func (s *ExpenseService) Summary(ctx context.Context, category string) (core.Summary, error) {
	res, err := s.List(ctx, core.ListFilter{Category: category})
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(res.Expenses), nil
}

// Ping reports whether the store is reachable.
func (s *ExpenseService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *ExpenseService) Counters() Counters {
	return Counters{
		Created:   s.created.Load(),
		Replayed:  s.replayed.Load(),
		Conflicts: s.conflicts.Load(),
	}
}

func (s *ExpenseService) remember(rec core.ExpenseRecord) {
	if s.cache != nil {
		s.cache.Set(rec.ID, rec)
	}
}

// publish never fails the request; the record is already stored.
func (s *ExpenseService) publish(ctx context.Context, rec core.ExpenseRecord) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseCreated(ctx, rec); err != nil {
		s.audit.LogError(ctx, "Failed to publish expense event", err, applog.OpPublish,
			applog.NewFields().WithExpense(rec).WithErrorType(applog.ErrorTypeNetwork))
	}
}

// Close releases the publisher and the store.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}
	return nil
}
