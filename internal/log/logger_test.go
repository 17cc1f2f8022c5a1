package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"expenses/internal/core"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStructuredLoggerExpenseFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentLedger, Output: &buf})
	sl := NewStructuredLogger(logger)

	rec := core.ExpenseRecord{ID: "abc", AmountCents: 1050, Category: "Food", Description: "secret", Date: "2024-01-01"}
	sl.LogExpenseStored(context.Background(), rec, core.OutcomeCreated)
	sl.LogError(context.Background(), "boom", errors.New("disk full"), OpCreate, nil)

	out := buf.String()
	for _, want := range []string{"component=ledger", "expense_id=abc", "amount_cents=1050", "outcome=created", "error=\"disk full\""} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "secret") {
		t.Fatalf("description must not be logged:\n%s", out)
	}
}

func TestContextCarriesRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Component: ComponentHTTP, Output: &buf})

	ctx := NewContext(context.Background(), logger.With(FieldRequestID, "req_1"))
	FromContext(ctx).InfoContext(ctx, "inside")

	if !strings.Contains(buf.String(), "request_id=req_1") {
		t.Fatalf("expected request id in log, got %s", buf.String())
	}
}

func TestFromContextFallback(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected fallback logger")
	}
}

func TestLogHTTPEndLevelByStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelDebug, Component: ComponentHTTP, Output: &buf})
	sl := NewStructuredLogger(logger)
	r := httptest.NewRequest(http.MethodPost, "/expenses?x=1", nil)
	ctx := NewContext(context.Background(), logger)

	sl.LogHTTPEnd(ctx, r, http.StatusConflict, 3, "1.2.3.4")
	sl.LogHTTPEnd(ctx, r, http.StatusInternalServerError, 3, "1.2.3.4")

	out := buf.String()
	for _, want := range []string{"level=WARN", "level=ERROR", "status_code=409", "client_ip=1.2.3.4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
}
