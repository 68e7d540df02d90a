package snapshot

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-git/go-billy/v6/memfs"

	"github.com/quarrydb/quarry/db"
)

func seedEngine(t *testing.T) *db.Engine {
	t.Helper()
	engine := db.NewEngine()
	statements := []string{
		"CREATE SCHEMA app",
		"CREATE TABLE app.users (id integer NOT NULL, name varchar(50), active boolean)",
		"INSERT INTO app.users VALUES (1, 'ada', true), (2, null, false)",
		"CREATE TABLE app.empty (a smallint)",
		"CREATE SCHEMA other",
		"CREATE TABLE other.t (c char(4))",
		"INSERT INTO other.t VALUES ('ab')",
	}
	for _, statement := range statements {
		if _, err := engine.Execute(statement); err != nil {
			t.Fatalf("seed %q: %v", statement, err)
		}
	}
	return engine
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fs := memfs.New()

	if err := Save(fs, seedEngine(t)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	restored := db.NewEngine()
	if err := Load(fs, restored); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	result, err := restored.Execute("SELECT * FROM app.users")
	if err != nil {
		t.Fatalf("select after restore: %v", err)
	}
	rows := result.TextRows()
	if len(rows) != 2 {
		t.Fatalf("row count = %d, expected 2", len(rows))
	}
	if *rows[0][0] != "1" || *rows[0][1] != "ada" || *rows[0][2] != "true" {
		t.Errorf("first row = %v", rows[0])
	}
	if rows[1][1] != nil {
		t.Errorf("expected NULL name in second row, got %q", *rows[1][1])
	}

	// Catalog structure survives, including empty tables and the
	// second schema.
	if names := restored.Catalog().SchemaNames(); !reflect.DeepEqual(names, []string{"app", "other"}) {
		t.Errorf("schemas = %v", names)
	}
	if _, err := restored.Execute("SELECT * FROM app.empty"); err != nil {
		t.Errorf("empty table missing after restore: %v", err)
	}

	// Column constraints survive too.
	if _, err := restored.Execute("INSERT INTO app.users VALUES (null, 'x', true)"); err == nil {
		t.Error("expected NOT NULL constraint after restore")
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	err := Load(memfs.New(), db.NewEngine())
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	fs := memfs.New()
	engine := seedEngine(t)
	if err := Save(fs, engine); err != nil {
		t.Fatalf("first save: %v", err)
	}

	if _, err := engine.Execute("DROP SCHEMA other CASCADE"); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	if err := Save(fs, engine); err != nil {
		t.Fatalf("second save: %v", err)
	}

	restored := db.NewEngine()
	if err := Load(fs, restored); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if names := restored.Catalog().SchemaNames(); !reflect.DeepEqual(names, []string{"app"}) {
		t.Errorf("schemas = %v", names)
	}
}
