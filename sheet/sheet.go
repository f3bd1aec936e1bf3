/*
Package sheet abstracts the tabular store the clinic keeps its leave data in.

PURPOSE:
  The production store is a spreadsheet: a workbook of named tabs, each tab a
  grid of string cells addressed 1-based, with append-row as the only way to
  grow the record log. This package defines that surface so the domain layer
  never touches a concrete backend.

ADDRESSING:
  Rows and columns are 1-based, matching how spreadsheet APIs address cells.
  Reading a cell outside the current grid returns the empty string, not an
  error - spreadsheets behave the same way.

WRITE MODEL:
  - AppendRow is the only way to add rows. The leave ledger tab is
    append-only by convention: nothing in this module ever rewrites a
    ledger row.
  - UpdateCell exists for the status tab, which caches derived balances.
    Last write wins; the ledger stays the source of truth.

IMPLEMENTATIONS:
  - sheet/memory: concurrency-safe in-memory workbook for tests and dev
  - sheet/sqldb:  database/sql-backed workbook (SQLite or PostgreSQL)

SEE ALSO:
  - leave/ledger.go: typed record adapter over a Tab
  - leave/status.go: balance cache adapter over a Tab
*/
package sheet

import (
	"context"
	"errors"
)

// ErrTabNotFound is returned by Workbook.Tab for an unknown tab name.
var ErrTabNotFound = errors.New("tab not found")

// Tab is a single worksheet: an ordered grid of string cells.
//
// Row and column indexes are 1-based. Reads outside the grid return ""
// rather than failing; writes outside the grid grow it.
type Tab interface {
	// Rows returns every row in insertion order. Rows may be ragged;
	// callers must tolerate short rows.
	Rows(ctx context.Context) ([][]string, error)

	// Column returns the values of one column, top to bottom, one entry
	// per existing row ("" where the row is shorter than col).
	Column(ctx context.Context, col int) ([]string, error)

	// Cell returns a single cell value, or "" when the cell is empty or
	// outside the grid.
	Cell(ctx context.Context, row, col int) (string, error)

	// UpdateCell overwrites a single cell. Last write wins.
	UpdateCell(ctx context.Context, row, col int, value string) error

	// AppendRow adds a row after the current last row.
	AppendRow(ctx context.Context, fields []string) error
}

// Workbook is a collection of named tabs.
type Workbook interface {
	Tab(name string) (Tab, error)
}
