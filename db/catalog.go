package db

import (
	"sort"
	"sync"

	"github.com/quarrydb/quarry/core"
)

// Catalog is the in-memory directory of schemas and tables. It is owned
// by exactly one Engine and lives for the engine's lifetime. DDL takes
// the write lock so concurrent CREATE/DROP of the same name resolve to
// exactly one winner.
type Catalog struct {
	mu      sync.RWMutex
	schemas map[string]*schemaEntry
}

type schemaEntry struct {
	name   string
	tables map[string]*Table
}

func NewCatalog() *Catalog {
	return &Catalog{schemas: make(map[string]*schemaEntry)}
}

// CreateSchema registers a new schema name.
func (catalog *Catalog) CreateSchema(name string) *core.QueryError {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	if _, exists := catalog.schemas[name]; exists {
		return core.ErrSchemaAlreadyExists(name)
	}
	catalog.schemas[name] = &schemaEntry{name: name, tables: make(map[string]*Table)}
	return nil
}

// DropSchema removes a schema together with all tables it contains and
// their rows. The removal is atomic with respect to the statement: no
// partially dropped schema is ever observable.
func (catalog *Catalog) DropSchema(name string) *core.QueryError {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	if _, exists := catalog.schemas[name]; !exists {
		return core.ErrSchemaDoesNotExist(name)
	}
	delete(catalog.schemas, name)
	return nil
}

// CreateTable registers a table under an existing schema. Zero-column
// tables are legal.
func (catalog *Catalog) CreateTable(schema, name string, columns []core.Column) *core.QueryError {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	entry, exists := catalog.schemas[schema]
	if !exists {
		return core.ErrSchemaDoesNotExist(schema)
	}
	if _, exists := entry.tables[name]; exists {
		return core.ErrTableAlreadyExists(schema + "." + name)
	}

	seen := make(map[string]struct{}, len(columns))
	for _, column := range columns {
		if _, dup := seen[column.Name]; dup {
			return core.ErrColumnAlreadyExists(column.Name)
		}
		seen[column.Name] = struct{}{}
	}

	entry.tables[name] = &Table{SchemaName: schema, Name: name, Columns: columns}
	return nil
}

// DropTable removes a table and its rows.
func (catalog *Catalog) DropTable(schema, name string) *core.QueryError {
	catalog.mu.Lock()
	defer catalog.mu.Unlock()

	entry, exists := catalog.schemas[schema]
	if !exists {
		return core.ErrSchemaDoesNotExist(schema)
	}
	if _, exists := entry.tables[name]; !exists {
		return core.ErrTableDoesNotExist(schema + "." + name)
	}
	delete(entry.tables, name)
	return nil
}

// LookupTable resolves schema.table to its handle.
func (catalog *Catalog) LookupTable(schema, name string) (*Table, *core.QueryError) {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	entry, exists := catalog.schemas[schema]
	if !exists {
		return nil, core.ErrSchemaDoesNotExist(schema)
	}
	table, exists := entry.tables[name]
	if !exists {
		return nil, core.ErrTableDoesNotExist(schema + "." + name)
	}
	return table, nil
}

// SchemaNames returns the schema names in sorted order.
func (catalog *Catalog) SchemaNames() []string {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	names := make([]string, 0, len(catalog.schemas))
	for name := range catalog.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tables returns the tables of a schema in sorted name order.
func (catalog *Catalog) Tables(schema string) ([]*Table, *core.QueryError) {
	catalog.mu.RLock()
	defer catalog.mu.RUnlock()

	entry, exists := catalog.schemas[schema]
	if !exists {
		return nil, core.ErrSchemaDoesNotExist(schema)
	}
	names := make([]string, 0, len(entry.tables))
	for name := range entry.tables {
		names = append(names, name)
	}
	sort.Strings(names)

	tables := make([]*Table, 0, len(names))
	for _, name := range names {
		tables = append(tables, entry.tables[name])
	}
	return tables, nil
}
