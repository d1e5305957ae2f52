package store

import (
	"context"
	"sync"
)

// Memory is an in-memory TableStore. It backs package tests and the
// --store=memory dry-run mode.
type Memory struct {
	mu     sync.Mutex
	header []string
	rows   [][]string
}

// NewMemory creates an in-memory table with the given header and optional
// seed rows. Seed rows are padded or truncated to the header width.
func NewMemory(header []string, seed [][]string) *Memory {
	m := &Memory{header: append([]string(nil), header...)}
	for _, r := range seed {
		row := make([]string, len(header))
		copy(row, r)
		m.rows = append(m.rows, row)
	}
	return m
}

// ReadAll returns copies of the header and data rows.
func (m *Memory) ReadAll(ctx context.Context) ([]string, [][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	header := append([]string(nil), m.header...)
	rows := make([][]string, len(m.rows))
	for i, r := range m.rows {
		rows[i] = append([]string(nil), r...)
	}
	return header, rows, nil
}

// AppendRows inserts the rows directly after the header, preserving batch
// order, so existing rows shift down by len(rows).
func (m *Memory) AppendRows(ctx context.Context, rows []map[string]string) error {
	if len(rows) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := make([][]string, 0, len(rows))
	for _, cells := range rows {
		for name := range cells {
			if _, ok := columnMap(m.header)[name]; !ok {
				return &UnknownColumnError{Column: name}
			}
		}
		inserted = append(inserted, buildRow(m.header, cells))
	}

	m.rows = append(inserted, m.rows...)
	return nil
}

// PatchCells applies all updates, or none if any update is invalid.
func (m *Memory) PatchCells(ctx context.Context, updates []CellUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cols := columnMap(m.header)

	// Validate the whole batch before mutating anything.
	for _, u := range updates {
		if _, ok := cols[u.Column]; !ok {
			return &UnknownColumnError{Column: u.Column}
		}
		if u.Row < 2 || u.Row > len(m.rows)+1 {
			return &RowRangeError{Row: u.Row}
		}
	}

	for _, u := range updates {
		m.rows[u.Row-2][cols[u.Column]] = u.Value
	}
	return nil
}
