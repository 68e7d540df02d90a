package db

import (
	"errors"
	"reflect"
	"testing"

	"github.com/quarrydb/quarry/core"
)

func mustExec(t *testing.T, engine *Engine, query string) *Result {
	t.Helper()
	result, err := engine.Execute(query)
	if err != nil {
		t.Fatalf("Execute(%q) failed: %v", query, err)
	}
	return result
}

func execKind(t *testing.T, engine *Engine, query string, kind core.ErrorKind) *core.QueryError {
	t.Helper()
	_, err := engine.Execute(query)
	if err == nil {
		t.Fatalf("Execute(%q): expected error kind %s", query, kind)
	}
	var queryErr *core.QueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("Execute(%q): error is not a QueryError: %v", query, err)
	}
	if queryErr.Kind != kind {
		t.Fatalf("Execute(%q): error kind = %s, expected %s", query, queryErr.Kind, kind)
	}
	return queryErr
}

// textRows flattens a query result for comparison; NULL becomes "<null>".
func textRows(result *Result) [][]string {
	rows := make([][]string, len(result.Rows))
	for i, row := range result.Rows {
		rendered := make([]string, len(row))
		for j, value := range row {
			if value.IsNull() {
				rendered[j] = "<null>"
			} else {
				rendered[j] = value.Text()
			}
		}
		rows[i] = rendered
	}
	return rows
}

func TestSchemaLifecycle(t *testing.T) {
	engine := NewEngine()

	result := mustExec(t, engine, "CREATE SCHEMA main")
	if result.Tag != "CREATE SCHEMA" {
		t.Errorf("tag = %q, expected CREATE SCHEMA", result.Tag)
	}

	execKind(t, engine, "CREATE SCHEMA main", core.DuplicateSchema)

	mustExec(t, engine, "DROP SCHEMA main")
	execKind(t, engine, "DROP SCHEMA main", core.SchemaNotFound)
}

func TestDropSchemaRemovesTables(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA main")
	mustExec(t, engine, "CREATE TABLE main.t (a integer)")
	mustExec(t, engine, "DROP SCHEMA main CASCADE")

	mustExec(t, engine, "CREATE SCHEMA main")
	execKind(t, engine, "SELECT * FROM main.t", core.TableNotFound)
}

func TestTableLifecycle(t *testing.T) {
	engine := NewEngine()
	execKind(t, engine, "CREATE TABLE main.t (a integer)", core.SchemaNotFound)

	mustExec(t, engine, "CREATE SCHEMA main")
	mustExec(t, engine, "CREATE TABLE main.t (a integer)")
	execKind(t, engine, "CREATE TABLE main.t (a integer)", core.DuplicateTable)
	execKind(t, engine, "CREATE TABLE main.t2 (a integer, a smallint)", core.DuplicateColumn)

	mustExec(t, engine, "DROP TABLE main.t")
	execKind(t, engine, "DROP TABLE main.t", core.TableNotFound)
}

func TestZeroColumnTable(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.empty()")

	result := mustExec(t, engine, "SELECT * FROM s.empty")
	if len(result.Columns) != 0 || len(result.Rows) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestIntegerBoundsRoundTrip(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.n (sm smallint, med integer, big bigint)")
	mustExec(t, engine, "INSERT INTO s.n VALUES (-32768, -2147483648, -9223372036854775808)")
	mustExec(t, engine, "INSERT INTO s.n VALUES (32767, 2147483647, 9223372036854775807)")

	result := mustExec(t, engine, "SELECT * FROM s.n")
	expected := [][]string{
		{"-32768", "-2147483648", "-9223372036854775808"},
		{"32767", "2147483647", "9223372036854775807"},
	}
	if !reflect.DeepEqual(textRows(result), expected) {
		t.Errorf("rows = %v, expected %v", textRows(result), expected)
	}
}

func TestOutOfRangeLeavesTableUnchanged(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.n (a smallint)")
	mustExec(t, engine, "INSERT INTO s.n VALUES (1)")

	err := execKind(t, engine, "INSERT INTO s.n VALUES (32768)", core.NumericValueOutOfRange)
	if err.Code != "22003" {
		t.Errorf("code = %s, expected 22003", err.Code)
	}
	execKind(t, engine, "INSERT INTO s.n VALUES (-32769)", core.NumericValueOutOfRange)

	// A failing multi-row INSERT must not keep its valid prefix.
	execKind(t, engine, "INSERT INTO s.n VALUES (2), (3), (99999)", core.NumericValueOutOfRange)

	result := mustExec(t, engine, "SELECT * FROM s.n")
	if len(result.Rows) != 1 {
		t.Errorf("row count = %d, expected 1", len(result.Rows))
	}
}

func TestQuotedNumericLiterals(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.n (a integer)")
	mustExec(t, engine, "INSERT INTO s.n VALUES ('123')")

	execKind(t, engine, "INSERT INTO s.n VALUES ('abc')", core.MostSpecificTypeMismatch)
	execKind(t, engine, "INSERT INTO s.n VALUES ('2147483648')", core.NumericValueOutOfRange)

	result := mustExec(t, engine, "SELECT * FROM s.n")
	if got := textRows(result); !reflect.DeepEqual(got, [][]string{{"123"}}) {
		t.Errorf("rows = %v", got)
	}
}

func TestCharTrailingBlankTrim(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.c (a char(10))")
	mustExec(t, engine, "INSERT INTO s.c VALUES ('1234567   ')")

	result := mustExec(t, engine, "SELECT * FROM s.c")
	if got := textRows(result); !reflect.DeepEqual(got, [][]string{{"1234567"}}) {
		t.Errorf("rows = %v, expected trimmed char", got)
	}

	execKind(t, engine, "INSERT INTO s.c VALUES ('12345678901')", core.StringDataRightTruncation)
}

func TestVarCharLength(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.v (a varchar(5))")
	mustExec(t, engine, "INSERT INTO s.v VALUES ('hello')")

	err := execKind(t, engine, "INSERT INTO s.v VALUES ('toolong')", core.StringDataRightTruncation)
	if err.Code != "22001" {
		t.Errorf("code = %s, expected 22001", err.Code)
	}
}

func TestBooleanSynonyms(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.b (v boolean)")

	trueForms := []string{"'t'", "'true'", "'on'", "'yes'", "'y'", "'1'", "'TRUE'", "true", "'t'::boolean", "1::boolean"}
	for _, form := range trueForms {
		mustExec(t, engine, "DELETE FROM s.b")
		mustExec(t, engine, "INSERT INTO s.b VALUES ("+form+")")
		result := mustExec(t, engine, "SELECT * FROM s.b")
		if got := textRows(result); !reflect.DeepEqual(got, [][]string{{"true"}}) {
			t.Errorf("%s: rows = %v, expected true", form, got)
		}
	}

	falseForms := []string{"'f'", "'false'", "'off'", "'no'", "'n'", "'0'", "false", "'off'::boolean", "0::boolean"}
	for _, form := range falseForms {
		mustExec(t, engine, "DELETE FROM s.b")
		mustExec(t, engine, "INSERT INTO s.b VALUES ("+form+")")
		result := mustExec(t, engine, "SELECT * FROM s.b")
		if got := textRows(result); !reflect.DeepEqual(got, [][]string{{"false"}}) {
			t.Errorf("%s: rows = %v, expected false", form, got)
		}
	}

	execKind(t, engine, "INSERT INTO s.b VALUES ('maybe')", core.MostSpecificTypeMismatch)
}

func TestSelectProjection(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.t (c1 smallint, c2 smallint, c3 smallint)")
	mustExec(t, engine, "INSERT INTO s.t VALUES (1, 2, 3)")

	result := mustExec(t, engine, "SELECT c3, c1, c2, c1, c3 FROM s.t")
	names := make([]string, len(result.Columns))
	for i, column := range result.Columns {
		names[i] = column.Name
	}
	if !reflect.DeepEqual(names, []string{"c3", "c1", "c2", "c1", "c3"}) {
		t.Errorf("column order = %v", names)
	}
	if got := textRows(result); !reflect.DeepEqual(got, [][]string{{"3", "1", "2", "1", "3"}}) {
		t.Errorf("rows = %v", got)
	}

	err := execKind(t, engine, "SELECT c1, nope, missing FROM s.t", core.ColumnNotFound)
	if err.Message != "columns nope, missing do not exist" {
		t.Errorf("message = %q", err.Message)
	}
}

func TestInsertColumnSubset(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.t (a integer, b integer, c integer)")
	mustExec(t, engine, "INSERT INTO s.t (c, a) VALUES (3, 1)")

	result := mustExec(t, engine, "SELECT * FROM s.t")
	if got := textRows(result); !reflect.DeepEqual(got, [][]string{{"1", "<null>", "3"}}) {
		t.Errorf("rows = %v", got)
	}

	execKind(t, engine, "INSERT INTO s.t (a, ghost) VALUES (1, 2)", core.ColumnNotFound)
	execKind(t, engine, "INSERT INTO s.t (a) VALUES (1, 2)", core.SyntaxError)
}

func TestShortTupleLeavesNulls(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.t (a integer, b integer)")
	mustExec(t, engine, "INSERT INTO s.t VALUES (7)")

	result := mustExec(t, engine, "SELECT * FROM s.t")
	if got := textRows(result); !reflect.DeepEqual(got, [][]string{{"7", "<null>"}}) {
		t.Errorf("rows = %v", got)
	}
}

func TestUpdateAllRows(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.t (a integer, b integer)")
	mustExec(t, engine, "INSERT INTO s.t VALUES (1, 10), (2, 20), (3, 30)")

	result := mustExec(t, engine, "UPDATE s.t SET b = 99")
	if result.Tag != "UPDATE" || result.RowsAffected != 3 {
		t.Errorf("result = %+v, expected UPDATE 3", result)
	}

	rows := textRows(mustExec(t, engine, "SELECT * FROM s.t"))
	expected := [][]string{{"1", "99"}, {"2", "99"}, {"3", "99"}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("rows = %v, expected %v", rows, expected)
	}

	execKind(t, engine, "UPDATE s.t SET ghost = 1", core.ColumnNotFound)
	execKind(t, engine, "UPDATE s.t SET b = 2147483648", core.NumericValueOutOfRange)
}

func TestDeleteAllRows(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.t (a integer)")
	mustExec(t, engine, "INSERT INTO s.t VALUES (1), (2)")

	result := mustExec(t, engine, "DELETE FROM s.t")
	if result.Tag != "DELETE" || result.RowsAffected != 2 {
		t.Errorf("result = %+v, expected DELETE 2", result)
	}
	if rows := mustExec(t, engine, "SELECT * FROM s.t").Rows; len(rows) != 0 {
		t.Errorf("rows remain after delete: %v", rows)
	}
}

func TestArithmeticExpressions(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.t (a integer)")

	tests := []struct {
		expr     string
		expected string
	}{
		{"3 + 5", "8"},
		{"10 - 4", "6"},
		{"6 * 7", "42"},
		{"15 / 5", "3"},
		{"7 / 2", "3"},
		{"7 % 3", "1"},
		{"2 ^ 10", "1024"},
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
	}

	for _, test := range tests {
		mustExec(t, engine, "DELETE FROM s.t")
		mustExec(t, engine, "INSERT INTO s.t VALUES ("+test.expr+")")
		rows := textRows(mustExec(t, engine, "SELECT * FROM s.t"))
		if !reflect.DeepEqual(rows, [][]string{{test.expected}}) {
			t.Errorf("%s: rows = %v, expected %s", test.expr, rows, test.expected)
		}
	}

	err := execKind(t, engine, "INSERT INTO s.t VALUES (1 / 0)", core.DivisionByZero)
	if err.Code != "22012" {
		t.Errorf("code = %s, expected 22012", err.Code)
	}
	execKind(t, engine, "INSERT INTO s.t VALUES (5 % 0)", core.DivisionByZero)
}

func TestArithmeticRangeCheckedAfterEvaluation(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.t (a smallint)")

	// Intermediate results may exceed the column range as long as the
	// final value fits.
	mustExec(t, engine, "INSERT INTO s.t VALUES (100000 / 10)")
	rows := textRows(mustExec(t, engine, "SELECT * FROM s.t"))
	if !reflect.DeepEqual(rows, [][]string{{"10000"}}) {
		t.Errorf("rows = %v", rows)
	}

	execKind(t, engine, "INSERT INTO s.t VALUES (30000 + 3000)", core.NumericValueOutOfRange)
}

func TestArithmeticOverflowRejected(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.t (a bigint)")

	overflowing := []string{
		"INSERT INTO s.t VALUES (9223372036854775807 + 1)",
		"INSERT INTO s.t VALUES (-9223372036854775808 - 1)",
		"INSERT INTO s.t VALUES (9223372036854775807 * 2)",
		"INSERT INTO s.t VALUES (3000000000 * 4000000000)",
		"INSERT INTO s.t VALUES (-9223372036854775808 / -1)",
		"INSERT INTO s.t VALUES (2 ^ 64)",
	}
	for _, statement := range overflowing {
		err := execKind(t, engine, statement, core.NumericValueOutOfRange)
		if err.Code != "22003" {
			t.Errorf("%q: code = %s, expected 22003", statement, err.Code)
		}
	}

	// No wrapped value may have been stored.
	if rows := mustExec(t, engine, "SELECT * FROM s.t").Rows; len(rows) != 0 {
		t.Errorf("rows stored despite overflow: %v", textRows(mustExec(t, engine, "SELECT * FROM s.t")))
	}

	// The bounds themselves remain reachable through arithmetic.
	mustExec(t, engine, "INSERT INTO s.t VALUES (9223372036854775806 + 1), (-9223372036854775807 - 1)")
	rows := textRows(mustExec(t, engine, "SELECT * FROM s.t"))
	expected := [][]string{{"9223372036854775807"}, {"-9223372036854775808"}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("rows = %v, expected %v", rows, expected)
	}
}

func TestInsertDuplicateTargetColumn(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.t (a integer, b integer)")

	err := execKind(t, engine, "INSERT INTO s.t (a, a) VALUES (1, 2)", core.DuplicateColumn)
	if err.Code != "42701" {
		t.Errorf("code = %s, expected 42701", err.Code)
	}
	if rows := mustExec(t, engine, "SELECT * FROM s.t").Rows; len(rows) != 0 {
		t.Errorf("rows stored despite duplicate target: %v", rows)
	}
}

func TestNullHandling(t *testing.T) {
	engine := NewEngine()
	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.t (a integer, b integer NOT NULL)")

	mustExec(t, engine, "INSERT INTO s.t VALUES (null, 1)")
	execKind(t, engine, "INSERT INTO s.t VALUES (1, null)", core.NullValueNotAllowed)
	execKind(t, engine, "INSERT INTO s.t (a) VALUES (1)", core.NullValueNotAllowed)
	execKind(t, engine, "UPDATE s.t SET b = null", core.NullValueNotAllowed)

	// NULL propagates through arithmetic.
	mustExec(t, engine, "INSERT INTO s.t VALUES (null + 1, 2)")
	rows := textRows(mustExec(t, engine, "SELECT a FROM s.t"))
	expected := [][]string{{"<null>"}, {"<null>"}}
	if !reflect.DeepEqual(rows, expected) {
		t.Errorf("rows = %v, expected %v", rows, expected)
	}
}

func TestSessionExecuteMany(t *testing.T) {
	engine := NewEngine()
	session := engine.Session("test")

	if _, err := session.Execute("CREATE SCHEMA s"); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	if _, err := session.Execute("CREATE TABLE s.t (a smallint, b varchar(10))"); err != nil {
		t.Fatalf("create table: %v", err)
	}

	result, err := session.ExecuteMany("INSERT INTO s.t VALUES ($1, $2)", [][]string{
		{"1", "one"},
		{"2", "two"},
		{"3", "three"},
	})
	if err != nil {
		t.Fatalf("ExecuteMany failed: %v", err)
	}
	if result.RowsAffected != 3 {
		t.Errorf("rows affected = %d, expected 3", result.RowsAffected)
	}

	// A bad tuple anywhere rejects the whole batch.
	_, err = session.ExecuteMany("INSERT INTO s.t VALUES ($1, $2)", [][]string{
		{"4", "four"},
		{"99999", "five"},
	})
	var queryErr *core.QueryError
	if !errors.As(err, &queryErr) || queryErr.Kind != core.NumericValueOutOfRange {
		t.Fatalf("expected out of range, got %v", err)
	}

	rows, err := session.Execute("SELECT * FROM s.t")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(rows.Rows) != 3 {
		t.Errorf("row count = %d, expected 3", len(rows.Rows))
	}
}

func TestParameterBindsLikeQuotedLiteral(t *testing.T) {
	engine := NewEngine()
	session := engine.Session("test")

	mustExec(t, engine, "CREATE SCHEMA s")
	mustExec(t, engine, "CREATE TABLE s.t (flag boolean, n smallint)")

	if _, err := session.ExecuteMany("INSERT INTO s.t VALUES ($1, $2)", [][]string{{"yes", "42"}}); err != nil {
		t.Fatalf("ExecuteMany failed: %v", err)
	}
	rows := textRows(mustExec(t, engine, "SELECT * FROM s.t"))
	if !reflect.DeepEqual(rows, [][]string{{"true", "42"}}) {
		t.Errorf("rows = %v", rows)
	}

	_, err := session.ExecuteMany("INSERT INTO s.t VALUES ($1, $2)", [][]string{{"yes"}})
	var queryErr *core.QueryError
	if !errors.As(err, &queryErr) || queryErr.Kind != core.SyntaxError {
		t.Fatalf("expected syntax error for unbound parameter, got %v", err)
	}
}
