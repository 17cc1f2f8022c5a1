// Package memory is an in-process record mirror used when no spreadsheet
// is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"expenses/internal/core"
	ports "expenses/internal/sheets"
)

var _ ports.RecordMirror = (*Mirror)(nil)

type Mirror struct {
	mu   sync.Mutex
	rows [][]string
	ids  map[string]struct{}
}

func New() *Mirror {
	return &Mirror{ids: make(map[string]struct{})}
}

func (m *Mirror) AppendRecord(_ context.Context, rec core.ExpenseRecord) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, ports.Row(rec))
	m.ids[rec.ID] = struct{}{}
	return fmt.Sprintf("mem:%d", len(m.rows)), nil
}

func (m *Mirror) HasRecord(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.ids[id]
	return ok, nil
}

// Rows returns a copy of the mirrored rows.
func (m *Mirror) Rows() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]string, len(m.rows))
	copy(out, m.rows)
	return out
}
