// Package google mirrors ledger records into a Google Sheets spreadsheet.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"expenses/internal/core"
	ports "expenses/internal/sheets"
)

var _ ports.RecordMirror = (*Client)(nil)

type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheet         string
}

// New authenticates with the configured service account.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(creds),
		goption.WithScopes(gsheet.SpreadsheetsScope),
		goption.WithHTTPClient(newHTTPClient()),
	)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created", "sheet", cfg.SheetName)
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

// NewWithService wraps an existing service, mainly for tests.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheet string) *Client {
	if sheet == "" {
		sheet = "Expenses"
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheet: sheet}
}

// credentials prefers inline JSON, then a file, then
// GOOGLE_APPLICATION_CREDENTIALS.
func credentials(cfg Config) ([]byte, error) {
	if js := strings.TrimSpace(cfg.ServiceAccountJSON); js != "" {
		return []byte(js), nil
	}
	path := strings.TrimSpace(cfg.ServiceAccountFile)
	if path == "" {
		path = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if path == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return b, nil
}

func newHTTPClient() *http.Client {
	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	return &http.Client{
		Transport: &http.Transport{
			DialContext:           dialer.DialContext,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
			ForceAttemptHTTP2:     true,
		},
		Timeout: 60 * time.Second,
	}
}

// AppendRecord appends one row after the last used row. RAW input keeps
// the amount as text so the sheet never rounds it.
func (c *Client) AppendRecord(ctx context.Context, rec core.ExpenseRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	row := make([]any, 0, len(ports.Header))
	for _, v := range ports.Row(rec) {
		row = append(row, v)
	}

	resp, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.sheet+"!A:F", &gsheet.ValueRange{Values: [][]any{row}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.sheet, err)
	}

	ref := c.sheet
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// HasRecord scans the id column.
func (c *Client) HasRecord(ctx context.Context, id string) (bool, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, c.sheet+"!A:A").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("read ids from sheet %s: %w", c.sheet, err)
	}
	for _, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == id {
			return true, nil
		}
	}
	return false, nil
}
