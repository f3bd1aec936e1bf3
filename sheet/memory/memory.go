/*
Package memory provides an in-memory sheet.Workbook.

PURPOSE:
  Backs tests and local development without a database. Behaves like the
  real store: 1-based addressing, empty string for out-of-range reads,
  grids that grow on write.

CONCURRENCY:
  A single RWMutex guards the whole workbook. The system is low traffic
  (two users), so per-tab locking would be overkill.
*/
package memory

import (
	"context"
	"sync"

	"github.com/sejongcare/leave-ledger/sheet"
)

// Workbook is an in-memory implementation of sheet.Workbook.
type Workbook struct {
	mu   sync.RWMutex
	tabs map[string]*tab
}

// New creates a workbook with the given (initially empty) tabs.
func New(tabNames ...string) *Workbook {
	w := &Workbook{tabs: make(map[string]*tab)}
	for _, name := range tabNames {
		w.tabs[name] = &tab{wb: w}
	}
	return w
}

// Tab returns the named tab.
func (w *Workbook) Tab(name string) (sheet.Tab, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	t, ok := w.tabs[name]
	if !ok {
		return nil, sheet.ErrTabNotFound
	}
	return t, nil
}

// Seed replaces the contents of a tab. Test setup helper; creates the tab
// if it does not exist yet.
func (w *Workbook) Seed(name string, rows [][]string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	t, ok := w.tabs[name]
	if !ok {
		t = &tab{wb: w}
		w.tabs[name] = t
	}
	t.rows = make([][]string, len(rows))
	for i, r := range rows {
		t.rows[i] = append([]string(nil), r...)
	}
}

type tab struct {
	wb   *Workbook
	rows [][]string
}

func (t *tab) Rows(_ context.Context) ([][]string, error) {
	t.wb.mu.RLock()
	defer t.wb.mu.RUnlock()
	out := make([][]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (t *tab) Column(_ context.Context, col int) ([]string, error) {
	t.wb.mu.RLock()
	defer t.wb.mu.RUnlock()
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		if col >= 1 && col <= len(r) {
			out[i] = r[col-1]
		}
	}
	return out, nil
}

func (t *tab) Cell(_ context.Context, row, col int) (string, error) {
	t.wb.mu.RLock()
	defer t.wb.mu.RUnlock()
	if row < 1 || row > len(t.rows) {
		return "", nil
	}
	r := t.rows[row-1]
	if col < 1 || col > len(r) {
		return "", nil
	}
	return r[col-1], nil
}

func (t *tab) UpdateCell(_ context.Context, row, col int, value string) error {
	t.wb.mu.Lock()
	defer t.wb.mu.Unlock()
	for len(t.rows) < row {
		t.rows = append(t.rows, nil)
	}
	r := t.rows[row-1]
	for len(r) < col {
		r = append(r, "")
	}
	r[col-1] = value
	t.rows[row-1] = r
	return nil
}

func (t *tab) AppendRow(_ context.Context, fields []string) error {
	t.wb.mu.Lock()
	defer t.wb.mu.Unlock()
	t.rows = append(t.rows, append([]string(nil), fields...))
	return nil
}
