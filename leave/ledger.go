/*
ledger.go - Typed adapter over the record tab

PURPOSE:
  Wraps the raw record tab in Record-typed reads and the single append
  write. This is the append-only boundary: nothing above this file ever
  learns the tab has an UpdateCell.

ROW LAYOUT (1-based columns):
  1: date (YYYY-MM-DD)
  2: employee name
  3: kind, with " (emergency)" suffix when flagged
  4: free-text reason
  5: consumed units (decimal string)

CRITICAL INVARIANTS:
  1. APPEND-ONLY: Append is the only write. No update, no delete, ever.
  2. ORDERED: Records returns rows in insertion order; that order is the
     source of truth.
  3. TOLERANT READS: malformed or short rows are skipped rather than
     failing the whole read - the store is a spreadsheet humans can touch.
*/
package leave

import (
	"context"
	"log/slog"

	"github.com/sejongcare/leave-ledger/sheet"
	"github.com/shopspring/decimal"
)

const (
	colDate = iota
	colEmployee
	colKind
	colReason
	colUnits
	recordColumns
)

// Ledger is the typed, append-only view of the record tab.
type Ledger struct {
	tab    sheet.Tab
	logger *slog.Logger
}

func NewLedger(tab sheet.Tab, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{tab: tab, logger: logger}
}

// Records returns every ledger row in insertion order. Rows that do not
// parse are logged and skipped.
func (l *Ledger) Records(ctx context.Context) ([]Record, error) {
	rows, err := l.tab.Rows(ctx)
	if err != nil {
		return nil, &StoreUnavailableError{Op: "ledger read", Err: err}
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		rec, ok := l.parseRow(row)
		if !ok {
			l.logger.Warn("skipping malformed ledger row", "row", i+1)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Append writes one record as a new last row. This is the durability
// point of a submission; failure propagates as StoreUnavailable.
func (l *Ledger) Append(ctx context.Context, rec Record) error {
	fields := []string{
		rec.Date.String(),
		rec.Employee,
		rec.kindField(),
		rec.Reason,
		rec.Units.String(),
	}
	if err := l.tab.AppendRow(ctx, fields); err != nil {
		return &StoreUnavailableError{Op: "ledger append", Err: err}
	}
	return nil
}

func (l *Ledger) parseRow(row []string) (Record, bool) {
	if len(row) < recordColumns {
		return Record{}, false
	}
	date, err := ParseDate(row[colDate])
	if err != nil {
		return Record{}, false
	}
	units, err := decimal.NewFromString(row[colUnits])
	if err != nil {
		return Record{}, false
	}
	kind, emergency := parseKindField(row[colKind])
	return Record{
		Date:      date,
		Employee:  row[colEmployee],
		Kind:      kind,
		Emergency: emergency,
		Reason:    row[colReason],
		Units:     units,
	}, true
}
