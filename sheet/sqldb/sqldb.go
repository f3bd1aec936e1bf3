/*
Package sqldb provides a database/sql-backed sheet.Workbook.

PURPOSE:
  Persists the workbook in a relational database while keeping the
  spreadsheet surface (tabs, 1-based cells, append-row). One
  implementation serves both SQLite and PostgreSQL; only the placeholder
  syntax differs, handled by Dialect.

SCHEMA:
  A single cells table: (tab, row_index, col_index) -> value. Append
  computes MAX(row_index)+1 inside a transaction so concurrent appends
  cannot collide on a row index. UpdateCell upserts; ON CONFLICT works on
  both backends.

APPEND-ONLY NOTE:
  The schema cannot enforce that ledger rows are never rewritten - that
  invariant lives in the leave layer, which only ever calls AppendRow on
  the record tab. UpdateCell is used solely for the status cache tab.

USAGE:
  db, _ := sql.Open("sqlite3", "leave.db?_journal_mode=WAL")
  wb, err := sqldb.New(db, sqldb.DialectSQLite)

  db, _ := sql.Open("postgres", dsn)
  wb, err := sqldb.New(db, sqldb.DialectPostgres)
*/
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sejongcare/leave-ledger/sheet"
)

// Dialect selects the SQL placeholder style.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

// Workbook is a SQL-backed sheet.Workbook.
type Workbook struct {
	db      *sql.DB
	dialect Dialect
}

// New creates the schema if needed and returns a workbook over db.
func New(db *sql.DB, dialect Dialect) (*Workbook, error) {
	schema := `
	CREATE TABLE IF NOT EXISTS cells (
		tab TEXT NOT NULL,
		row_index INTEGER NOT NULL,
		col_index INTEGER NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (tab, row_index, col_index)
	)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to migrate workbook schema: %w", err)
	}
	return &Workbook{db: db, dialect: dialect}, nil
}

// Tab returns the named tab. Tabs exist implicitly; an unused name is
// simply an empty tab.
func (w *Workbook) Tab(name string) (sheet.Tab, error) {
	return &tab{wb: w, name: name}, nil
}

// Close closes the underlying database.
func (w *Workbook) Close() error {
	return w.db.Close()
}

// bind rewrites ? placeholders to $n for PostgreSQL.
func (w *Workbook) bind(query string) string {
	if w.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type tab struct {
	wb   *Workbook
	name string
}

func (t *tab) Rows(ctx context.Context) ([][]string, error) {
	q := t.wb.bind(`
		SELECT row_index, col_index, value FROM cells
		WHERE tab = ?
		ORDER BY row_index, col_index`)
	rows, err := t.wb.db.QueryContext(ctx, q, t.name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grid [][]string
	for rows.Next() {
		var ri, ci int
		var v string
		if err := rows.Scan(&ri, &ci, &v); err != nil {
			return nil, err
		}
		for len(grid) < ri {
			grid = append(grid, nil)
		}
		r := grid[ri-1]
		for len(r) < ci {
			r = append(r, "")
		}
		r[ci-1] = v
		grid[ri-1] = r
	}
	return grid, rows.Err()
}

func (t *tab) Column(ctx context.Context, col int) ([]string, error) {
	grid, err := t.Rows(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(grid))
	for i, r := range grid {
		if col >= 1 && col <= len(r) {
			out[i] = r[col-1]
		}
	}
	return out, nil
}

func (t *tab) Cell(ctx context.Context, row, col int) (string, error) {
	q := t.wb.bind(`SELECT value FROM cells WHERE tab = ? AND row_index = ? AND col_index = ?`)
	var v string
	err := t.wb.db.QueryRowContext(ctx, q, t.name, row, col).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (t *tab) UpdateCell(ctx context.Context, row, col int, value string) error {
	q := t.wb.bind(`
		INSERT INTO cells (tab, row_index, col_index, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (tab, row_index, col_index) DO UPDATE SET value = excluded.value`)
	_, err := t.wb.db.ExecContext(ctx, q, t.name, row, col, value)
	return err
}

func (t *tab) AppendRow(ctx context.Context, fields []string) error {
	dbTx, err := t.wb.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer dbTx.Rollback()

	var next int
	q := t.wb.bind(`SELECT COALESCE(MAX(row_index), 0) + 1 FROM cells WHERE tab = ?`)
	if err := dbTx.QueryRowContext(ctx, q, t.name).Scan(&next); err != nil {
		return err
	}

	ins := t.wb.bind(`INSERT INTO cells (tab, row_index, col_index, value) VALUES (?, ?, ?, ?)`)
	for i, v := range fields {
		if _, err := dbTx.ExecContext(ctx, ins, t.name, next, i+1, v); err != nil {
			return err
		}
	}
	return dbTx.Commit()
}
