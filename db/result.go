package db

import "github.com/quarrydb/quarry/core"

// ColumnDescriptor describes one output column of a result set, in the
// order the statement requested it.
type ColumnDescriptor struct {
	Name string       `json:"name"`
	Type core.SQLType `json:"type"`
}

// Result is the successful outcome of one statement. Queries carry
// Columns and Rows; DDL and mutations carry a command Tag and, for
// mutations, RowsAffected.
type Result struct {
	Tag          string
	Columns      []ColumnDescriptor
	Rows         [][]core.Value
	RowsAffected int
}

// TextRows renders every value to its canonical text form for the
// transport layer. NULL renders as a nil pointer.
func (result *Result) TextRows() [][]*string {
	out := make([][]*string, len(result.Rows))
	for i, row := range result.Rows {
		rendered := make([]*string, len(row))
		for j, value := range row {
			if value.IsNull() {
				continue
			}
			text := value.Text()
			rendered[j] = &text
		}
		out[i] = rendered
	}
	return out
}
