package db

import "github.com/quarrydb/quarry/core"

// CatalogDump is the serializable form of the catalog and all row data,
// used by the snapshot layer. Values are carried in their canonical
// text form; NULL is a nil pointer.
type CatalogDump struct {
	Schemas []SchemaDump `json:"schemas"`
}

type SchemaDump struct {
	Name   string      `json:"name"`
	Tables []TableDump `json:"tables"`
}

type TableDump struct {
	Name    string        `json:"name"`
	Columns []core.Column `json:"columns"`
	Rows    [][]*string   `json:"rows"`
}

// Dump captures the whole catalog. Schemas and tables are emitted in
// sorted name order so snapshots are stable across runs.
func (catalog *Catalog) Dump() CatalogDump {
	var dump CatalogDump
	for _, schema := range catalog.SchemaNames() {
		entry := SchemaDump{Name: schema}
		tables, _ := catalog.Tables(schema)
		for _, table := range tables {
			refs := make([]int, len(table.Columns))
			for i := range refs {
				refs[i] = i
			}
			tableDump := TableDump{Name: table.Name, Columns: table.Columns}
			for _, row := range table.Scan(refs) {
				rendered := make([]*string, len(row))
				for i, value := range row {
					if value.IsNull() {
						continue
					}
					text := value.Text()
					rendered[i] = &text
				}
				tableDump.Rows = append(tableDump.Rows, rendered)
			}
			entry.Tables = append(entry.Tables, tableDump)
		}
		dump.Schemas = append(dump.Schemas, entry)
	}
	return dump
}

// Restore rebuilds catalog state from a dump. It goes through the same
// creation and coercion paths as regular statements, so a corrupted
// dump surfaces as a regular QueryError. The dump is staged into a
// scratch catalog and swapped in only once fully built; a failed
// restore leaves the catalog untouched.
func (catalog *Catalog) Restore(dump CatalogDump) error {
	scratch := NewCatalog()
	for _, schema := range dump.Schemas {
		if err := scratch.CreateSchema(schema.Name); err != nil {
			return err
		}
		for _, tableDump := range schema.Tables {
			if err := scratch.CreateTable(schema.Name, tableDump.Name, tableDump.Columns); err != nil {
				return err
			}
			table, err := scratch.LookupTable(schema.Name, tableDump.Name)
			if err != nil {
				return err
			}

			rows := make([][]core.Value, 0, len(tableDump.Rows))
			for _, rendered := range tableDump.Rows {
				row := make([]core.Value, len(table.Columns))
				for i, text := range rendered {
					if text == nil {
						row[i] = core.Null()
						continue
					}
					column := table.Columns[i]
					value, coerceErr := core.CoerceString(*text, column.Type, column.Name)
					if coerceErr != nil {
						return coerceErr
					}
					row[i] = value
				}
				rows = append(rows, row)
			}
			table.Append(rows)
		}
	}

	catalog.mu.Lock()
	catalog.schemas = scratch.schemas
	catalog.mu.Unlock()
	return nil
}
