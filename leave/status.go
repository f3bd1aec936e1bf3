/*
status.go - Balance cache adapter over the status tab

PURPOSE:
  The status tab holds one row per employee with denormalized "remaining"
  cells so the dashboard (and anyone peeking at the spreadsheet) gets the
  balance without replaying the ledger. It is a cache, never authoritative:
  every accepted submission rewrites the affected cell, and SyncAll can
  rebuild every cell from the ledger to heal drift.

ROW ADDRESSING:
  Employee rows are located by scanning the name column. Addressing is
  positional and 1-based, like the spreadsheet it models.
*/
package leave

import (
	"context"

	"github.com/sejongcare/leave-ledger/sheet"
	"github.com/shopspring/decimal"
)

// StatusBook reads and writes the cached balance cells.
type StatusBook struct {
	tab sheet.Tab
}

func NewStatusBook(tab sheet.Tab) *StatusBook {
	return &StatusBook{tab: tab}
}

// row locates an employee's 1-based row via the name column.
func (s *StatusBook) row(ctx context.Context, employee string) (int, error) {
	names, err := s.tab.Column(ctx, StatusNameColumn)
	if err != nil {
		return 0, &StoreUnavailableError{Op: "status read", Err: err}
	}
	for i, name := range names {
		if name == employee {
			return i + 1, nil
		}
	}
	return 0, &ConfigurationError{Employee: employee, Detail: "no status row"}
}

// SyncBalance writes one pool's remaining balance into its cache cell.
func (s *StatusBook) SyncBalance(ctx context.Context, employee string, col int, remaining decimal.Decimal) error {
	row, err := s.row(ctx, employee)
	if err != nil {
		return err
	}
	return s.tab.UpdateCell(ctx, row, col, remaining.String())
}

// CachedBalance reads a pool's cached cell. Empty cell decodes as zero.
func (s *StatusBook) CachedBalance(ctx context.Context, employee string, col int) (decimal.Decimal, error) {
	row, err := s.row(ctx, employee)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := s.tab.Cell(ctx, row, col)
	if err != nil {
		return decimal.Zero, &StoreUnavailableError{Op: "status read", Err: err}
	}
	if v == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(v)
}

// EnsureRow creates an employee's status row when absent. Used at startup
// so a fresh store bootstraps itself; after that a missing row is a
// configuration error.
func (s *StatusBook) EnsureRow(ctx context.Context, employee string) error {
	_, err := s.row(ctx, employee)
	if _, ok := err.(*ConfigurationError); ok {
		return s.tab.AppendRow(ctx, []string{employee})
	}
	return err
}
