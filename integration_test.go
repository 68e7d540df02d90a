package quarry

import (
	"errors"
	"sync"
	"testing"

	"github.com/go-git/go-billy/v6/memfs"

	"github.com/quarrydb/quarry/core"
	"github.com/quarrydb/quarry/snapshot"
)

func TestEndToEndWorkflow(t *testing.T) {
	instance := Open()
	session := instance.Session("it")

	statements := []string{
		"CREATE SCHEMA shop",
		"CREATE TABLE shop.orders (id integer NOT NULL, qty smallint, note varchar(20), paid boolean)",
		"INSERT INTO shop.orders VALUES (1, 2 + 3, 'first', 'yes')",
		"INSERT INTO shop.orders (id, paid) VALUES (2, false)",
	}
	for _, statement := range statements {
		if _, err := session.Execute(statement); err != nil {
			t.Fatalf("%q: %v", statement, err)
		}
	}

	result, err := session.Execute("SELECT id, qty, paid FROM shop.orders")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	rows := result.TextRows()
	if len(rows) != 2 {
		t.Fatalf("row count = %d", len(rows))
	}
	if *rows[0][1] != "5" || *rows[0][2] != "true" {
		t.Errorf("first row = %v", rows[0])
	}
	if rows[1][1] != nil {
		t.Errorf("expected NULL qty for second order")
	}

	if _, err := session.Execute("INSERT INTO shop.orders (qty) VALUES (1)"); err == nil {
		t.Error("expected NOT NULL violation")
	}

	// Snapshot the instance and restore into a fresh one.
	fs := memfs.New()
	if err := snapshot.Save(fs, instance.Engine()); err != nil {
		t.Fatalf("save: %v", err)
	}
	restored := Open()
	if err := snapshot.Load(fs, restored.Engine()); err != nil {
		t.Fatalf("load: %v", err)
	}
	result, err = restored.Session("it2").Execute("SELECT id FROM shop.orders")
	if err != nil {
		t.Fatalf("select after restore: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Errorf("restored row count = %d", len(result.Rows))
	}
}

func TestStatementErrorsAreQueryErrors(t *testing.T) {
	session := Open().Session("it")

	inputs := []string{
		"CREATE SCHEMA",
		"SELECT * FROM missing.t",
		"INSERT INTO missing.t VALUES (1)",
	}
	for _, input := range inputs {
		_, err := session.Execute(input)
		var queryErr *core.QueryError
		if !errors.As(err, &queryErr) {
			t.Errorf("%q: error %v is not a QueryError", input, err)
		}
	}
}

func TestConcurrentSessions(t *testing.T) {
	instance := Open()
	setup := instance.Session("setup")
	if _, err := setup.Execute("CREATE SCHEMA s"); err != nil {
		t.Fatal(err)
	}
	if _, err := setup.Execute("CREATE TABLE s.t (a integer)"); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			session := instance.Session("worker")
			for j := 0; j < 25; j++ {
				if _, err := session.Execute("INSERT INTO s.t VALUES (1)"); err != nil {
					t.Errorf("worker %d insert: %v", id, err)
					return
				}
			}
		}(i)
	}
	wg.Wait()

	result, err := setup.Execute("SELECT * FROM s.t")
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Rows) != 200 {
		t.Errorf("row count = %d, expected 200", len(result.Rows))
	}
}
