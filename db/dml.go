package db

import (
	"github.com/quarrydb/quarry/core"
	"github.com/quarrydb/quarry/sql"
)

func (engine *Engine) executeInsert(statement sql.InsertStatement, params []string) (*Result, error) {
	table, err := engine.catalog.LookupTable(statement.Schema, statement.Table)
	if err != nil {
		return nil, err
	}
	rows, err := buildInsertRows(table, statement, params)
	if err != nil {
		return nil, err
	}
	inserted := table.Append(rows)
	return &Result{Tag: "INSERT", RowsAffected: inserted}, nil
}

// executeInsertBatch binds one INSERT template against many parameter
// tuples and applies the whole batch as a single logical statement.
func (engine *Engine) executeInsertBatch(statement sql.InsertStatement, parameterRows [][]string) (*Result, error) {
	table, err := engine.catalog.LookupTable(statement.Schema, statement.Table)
	if err != nil {
		return nil, err
	}

	var rows [][]core.Value
	for _, params := range parameterRows {
		bound, err := buildInsertRows(table, statement, params)
		if err != nil {
			return nil, err
		}
		rows = append(rows, bound...)
	}
	inserted := table.Append(rows)
	return &Result{Tag: "INSERT", RowsAffected: inserted}, nil
}

// buildInsertRows evaluates and validates every VALUES tuple before any
// row is stored, so a violation anywhere leaves the table untouched.
func buildInsertRows(table *Table, statement sql.InsertStatement, params []string) ([][]core.Value, *core.QueryError) {
	targets, err := insertTargets(table, statement.Columns)
	if err != nil {
		return nil, err
	}

	rows := make([][]core.Value, 0, len(statement.Rows))
	for _, tuple := range statement.Rows {
		if len(tuple) > len(targets) {
			return nil, core.ErrSyntax("INSERT has more expressions than target columns")
		}

		// Columns without an expression stay NULL.
		row := make([]core.Value, len(table.Columns))
		for i := range row {
			row[i] = core.Null()
		}
		for i, expr := range tuple {
			target := table.Columns[targets[i]]
			value, err := evalExpression(expr, target, params)
			if err != nil {
				return nil, err
			}
			row[targets[i]] = value
		}

		for i, column := range table.Columns {
			if column.NotNull && row[i].IsNull() {
				return nil, core.ErrNullNotAllowed(column.Name)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// insertTargets maps an optional explicit column list onto declared
// column positions. An empty list means declared order.
func insertTargets(table *Table, columns []string) ([]int, *core.QueryError) {
	if len(columns) == 0 {
		targets := make([]int, len(table.Columns))
		for i := range targets {
			targets[i] = i
		}
		return targets, nil
	}

	targets := make([]int, 0, len(columns))
	seen := make(map[string]struct{}, len(columns))
	var unknown []string
	for _, name := range columns {
		if _, dup := seen[name]; dup {
			return nil, core.ErrColumnAlreadyExists(name)
		}
		seen[name] = struct{}{}
		index, found := table.ColumnIndex(name)
		if !found {
			unknown = append(unknown, name)
			continue
		}
		targets = append(targets, index)
	}
	if len(unknown) > 0 {
		return nil, core.ErrColumnsDoNotExist(unknown...)
	}
	return targets, nil
}

func (engine *Engine) executeSelect(statement sql.SelectStatement) (*Result, error) {
	table, err := engine.catalog.LookupTable(statement.Schema, statement.Table)
	if err != nil {
		return nil, err
	}

	var refs []int
	if len(statement.Columns) == 0 {
		refs = make([]int, len(table.Columns))
		for i := range refs {
			refs[i] = i
		}
	} else {
		var unknown []string
		for _, name := range statement.Columns {
			index, found := table.ColumnIndex(name)
			if !found {
				unknown = append(unknown, name)
				continue
			}
			refs = append(refs, index)
		}
		if len(unknown) > 0 {
			return nil, core.ErrColumnsDoNotExist(unknown...)
		}
	}

	descriptors := make([]ColumnDescriptor, len(refs))
	for i, ref := range refs {
		descriptors[i] = ColumnDescriptor{Name: table.Columns[ref].Name, Type: table.Columns[ref].Type}
	}
	return &Result{Tag: "SELECT", Columns: descriptors, Rows: table.Scan(refs)}, nil
}

func (engine *Engine) executeUpdate(statement sql.UpdateStatement, params []string) (*Result, error) {
	table, err := engine.catalog.LookupTable(statement.Schema, statement.Table)
	if err != nil {
		return nil, err
	}

	// Assigned columns must exist before anything is evaluated.
	indexes := make([]int, 0, len(statement.Assignments))
	var unknown []string
	for _, assignment := range statement.Assignments {
		index, found := table.ColumnIndex(assignment.Column)
		if !found {
			unknown = append(unknown, assignment.Column)
			continue
		}
		indexes = append(indexes, index)
	}
	if len(unknown) > 0 {
		return nil, core.ErrColumnsDoNotExist(unknown...)
	}

	// Each assignment is evaluated once; without a row predicate the
	// computed value applies to every existing row.
	values := make(map[int]core.Value, len(statement.Assignments))
	for i, assignment := range statement.Assignments {
		column := table.Columns[indexes[i]]
		value, evalErr := evalExpression(assignment.Value, column, params)
		if evalErr != nil {
			return nil, evalErr
		}
		if column.NotNull && value.IsNull() {
			return nil, core.ErrNullNotAllowed(column.Name)
		}
		values[indexes[i]] = value
	}

	updated := table.UpdateAll(values)
	return &Result{Tag: "UPDATE", RowsAffected: updated}, nil
}

func (engine *Engine) executeDelete(statement sql.DeleteStatement) (*Result, error) {
	table, err := engine.catalog.LookupTable(statement.Schema, statement.Table)
	if err != nil {
		return nil, err
	}
	deleted := table.DeleteAll()
	return &Result{Tag: "DELETE", RowsAffected: deleted}, nil
}
