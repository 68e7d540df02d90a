package db

import (
	"sync"

	"github.com/quarrydb/quarry/core"
)

// Table owns its column definitions and rows. Column order is fixed at
// creation and defines positional semantics for unqualified INSERT and
// SELECT *. Rows are kept in insertion order.
type Table struct {
	SchemaName string
	Name       string
	Columns    []core.Column

	mu   sync.Mutex
	rows [][]core.Value
}

// ColumnIndex resolves a column name to its ordinal position.
func (table *Table) ColumnIndex(name string) (int, bool) {
	for i, column := range table.Columns {
		if column.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Append adds fully validated rows. Validation happens before the lock
// is taken so a multi-row insert is all-or-nothing.
func (table *Table) Append(rows [][]core.Value) int {
	table.mu.Lock()
	defer table.mu.Unlock()
	table.rows = append(table.rows, rows...)
	return len(rows)
}

// Scan returns the projection of every row over the given column
// positions, in insertion order. Positions may repeat.
func (table *Table) Scan(refs []int) [][]core.Value {
	table.mu.Lock()
	defer table.mu.Unlock()

	out := make([][]core.Value, 0, len(table.rows))
	for _, row := range table.rows {
		projected := make([]core.Value, len(refs))
		for i, ref := range refs {
			projected[i] = row[ref]
		}
		out = append(out, projected)
	}
	return out
}

// UpdateAll overwrites the given column positions in every row. There
// is no row predicate; the assignment applies unconditionally.
func (table *Table) UpdateAll(values map[int]core.Value) int {
	table.mu.Lock()
	defer table.mu.Unlock()

	for _, row := range table.rows {
		for ref, value := range values {
			row[ref] = value
		}
	}
	return len(table.rows)
}

// DeleteAll empties the row sequence and reports how many rows it held.
func (table *Table) DeleteAll() int {
	table.mu.Lock()
	defer table.mu.Unlock()

	n := len(table.rows)
	table.rows = nil
	return n
}

// RowCount reports the current number of rows.
func (table *Table) RowCount() int {
	table.mu.Lock()
	defer table.mu.Unlock()
	return len(table.rows)
}
