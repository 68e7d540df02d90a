// Package snapshot saves and restores engine state as JSON files on a
// billy filesystem. It is an operator-level dump/restore facility, not
// a durability layer: there is no write-ahead log and no crash
// recovery. The server saves on shutdown and loads on boot; tests use
// an in-memory filesystem.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/util"

	"github.com/quarrydb/quarry/core"
	"github.com/quarrydb/quarry/db"
)

const catalogFile = "catalog.json"

// ErrNoSnapshot reports that the filesystem holds no snapshot.
var ErrNoSnapshot = errors.New("no snapshot found")

// catalogManifest is the on-disk catalog layout. Row data lives in one
// file per table under data/ so the manifest stays small.
type catalogManifest struct {
	Schemas []schemaManifest `json:"schemas"`
}

type schemaManifest struct {
	Name   string          `json:"name"`
	Tables []tableManifest `json:"tables"`
}

type tableManifest struct {
	Name    string        `json:"name"`
	Columns []core.Column `json:"columns"`
}

func rowsFile(schema, table string) string {
	return path.Join("data", schema, table+".json")
}

// Save writes the engine's catalog and row data to the filesystem,
// replacing any previous snapshot.
func Save(fs billy.Filesystem, engine *db.Engine) error {
	dump := engine.Catalog().Dump()

	var manifest catalogManifest
	for _, schema := range dump.Schemas {
		entry := schemaManifest{Name: schema.Name}
		for _, table := range schema.Tables {
			entry.Tables = append(entry.Tables, tableManifest{Name: table.Name, Columns: table.Columns})

			rows, err := json.Marshal(table.Rows)
			if err != nil {
				return fmt.Errorf("encoding rows of %s.%s: %w", schema.Name, table.Name, err)
			}
			file := rowsFile(schema.Name, table.Name)
			if err := util.WriteFile(fs, file, rows, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", file, err)
			}
		}
		manifest.Schemas = append(manifest.Schemas, entry)
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding catalog: %w", err)
	}
	if err := util.WriteFile(fs, catalogFile, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", catalogFile, err)
	}
	return nil
}

// Load restores engine state from a snapshot written by Save, replacing
// whatever the catalog held. On failure the catalog keeps its previous
// contents.
func Load(fs billy.Filesystem, engine *db.Engine) error {
	data, err := util.ReadFile(fs, catalogFile)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoSnapshot
		}
		return fmt.Errorf("reading %s: %w", catalogFile, err)
	}

	var manifest catalogManifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return fmt.Errorf("decoding %s: %w", catalogFile, err)
	}

	var dump db.CatalogDump
	for _, schema := range manifest.Schemas {
		entry := db.SchemaDump{Name: schema.Name}
		for _, table := range schema.Tables {
			file := rowsFile(schema.Name, table.Name)
			rowData, err := util.ReadFile(fs, file)
			if err != nil {
				return fmt.Errorf("reading %s: %w", file, err)
			}
			var rows [][]*string
			if err := json.Unmarshal(rowData, &rows); err != nil {
				return fmt.Errorf("decoding %s: %w", file, err)
			}
			entry.Tables = append(entry.Tables, db.TableDump{
				Name:    table.Name,
				Columns: table.Columns,
				Rows:    rows,
			})
		}
		dump.Schemas = append(dump.Schemas, entry)
	}

	if err := engine.Catalog().Restore(dump); err != nil {
		return fmt.Errorf("restoring catalog: %w", err)
	}
	return nil
}
