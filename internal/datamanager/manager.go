package datamanager

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrTableExists   = errors.New("datamanager: table already exists")
	ErrTableNotFound = errors.New("datamanager: table not found")
)

type table struct {
	columns []string
	rows    [][]string
}

// Manager is an in-memory table store. Values are kept as text; typing is
// left to the caller. Safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	tables map[string]*table
}

func New() *Manager {
	return &Manager{tables: make(map[string]*table)}
}

// CreateTable registers an empty table with the given column names.
func (m *Manager) CreateTable(name string, columns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[name]; ok {
		return fmt.Errorf("%w: %q", ErrTableExists, name)
	}
	m.tables[name] = &table{columns: append([]string(nil), columns...)}
	return nil
}

// SaveTo appends a row to table.
func (m *Manager) SaveTo(name string, row []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	t.rows = append(t.rows, append([]string(nil), row...))
	return nil
}

// RowFrom returns a copy of row id of table.
func (m *Manager) RowFrom(name string, id int) ([]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[name]
	if !ok || id < 0 || id >= len(t.rows) {
		return nil, false
	}
	return append([]string(nil), t.rows[id]...), true
}

// Range returns up to n rows starting at from. n < 0 means all remaining
// rows. ok is false only when the table does not exist.
func (m *Manager) Range(name string, from, n int) ([][]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[name]
	if !ok {
		return nil, false
	}
	if from < 0 {
		from = 0
	}
	if from >= len(t.rows) {
		return [][]string{}, true
	}
	end := len(t.rows)
	if n >= 0 && from+n < end {
		end = from + n
	}

	out := make([][]string, 0, end-from)
	for _, r := range t.rows[from:end] {
		out = append(out, append([]string(nil), r...))
	}
	return out, true
}

func (m *Manager) Columns(name string) ([]string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tables[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), t.columns...), true
}

// DeleteWhere removes every row for which pred returns true and reports how
// many were removed. A nil pred removes all rows.
func (m *Manager) DeleteWhere(name string, pred func(columns, row []string) bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tables[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}

	kept := t.rows[:0]
	removed := 0
	for _, r := range t.rows {
		if pred == nil || pred(t.columns, r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	for i := len(kept); i < len(t.rows); i++ {
		t.rows[i] = nil
	}
	t.rows = kept
	return removed, nil
}

// Tables lists table names in lexical order.
func (m *Manager) Tables() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.tables))
	for n := range m.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
