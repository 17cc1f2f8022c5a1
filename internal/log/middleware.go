package log

import (
	"context"
	"log/slog"
	"net/http"

	"expenses/internal/core"
)

type contextKey struct{}

// NewContext returns ctx carrying logger.
func NewContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the request scoped logger, or one backed by the
// slog default when none was attached.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(contextKey{}).(*Logger); ok {
		return logger
	}
	return &Logger{Logger: slog.Default(), component: "unknown"}
}

// StructuredLogger emits the canonical ledger log lines.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).
		WithClientIP(clientIP)
	FromContext(ctx).LogFields(ctx, slog.LevelDebug, "HTTP request started", fields)
}

// LogHTTPEnd logs at info, warn for 4xx or error for 5xx.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "").
		WithHTTPResponse(statusCode, durationMs).
		WithClientIP(clientIP)
	FromContext(ctx).LogFields(ctx, level, "HTTP request completed", fields)
}

// LogExpenseStored logs a create call that returned a record.
func (sl *StructuredLogger) LogExpenseStored(ctx context.Context, rec core.ExpenseRecord, outcome core.Outcome) {
	fields := NewFields().
		WithExpense(rec).
		WithOutcome(outcome).
		WithOperation(OpCreate)
	sl.logger.LogFields(ctx, slog.LevelInfo, "Expense stored", fields)
}

func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	fields.WithError(err).WithOperation(operation)
	sl.logger.LogFields(ctx, slog.LevelError, msg, fields)
}
