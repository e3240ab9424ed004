// pkg/storage/database.go
package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"simpledb/pkg/dberr"
	"simpledb/pkg/schema"
	"simpledb/pkg/types"
)

// Database is an ordered registry of tables plus an optional snapshot file
// path. Table creation order is kept for ListTables. A snapshot stores its
// tables as a JSON object, so after Load the tables are listed in no defined
// order.
type Database struct {
	Path   string
	names  []string
	tables map[string]*Table
}

// Open creates a Database bound to path and loads an existing snapshot, if
// any. An empty path yields a purely in-memory database that never persists
// (the caller is responsible for not expecting durability).
func Open(path string) (*Database, error) {
	db := &Database{Path: path, tables: make(map[string]*Table)}
	if path == "" {
		return db, nil
	}
	if err := db.Load(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *Database) CreateTable(name string, columns []schema.Column) error {
	if _, exists := db.tables[name]; exists {
		return dberr.ParseError("table %q already exists", name)
	}
	db.tables[name] = NewTable(name, columns)
	db.names = append(db.names, name)
	return nil
}

func (db *Database) DropTable(name string) error {
	if _, exists := db.tables[name]; !exists {
		return dberr.TableNotFound(name)
	}
	delete(db.tables, name)
	for i, n := range db.names {
		if n == name {
			db.names = append(db.names[:i], db.names[i+1:]...)
			break
		}
	}
	return nil
}

func (db *Database) GetTable(name string) (*Table, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, dberr.TableNotFound(name)
	}
	return t, nil
}

func (db *Database) HasTable(name string) bool {
	_, ok := db.tables[name]
	return ok
}

// ListTables returns table names in creation order (for a loaded database,
// the order in which Load registered them).
func (db *Database) ListTables() []string {
	out := make([]string, len(db.names))
	copy(out, db.names)
	return out
}

// --- snapshot persistence ---

type snapshotDoc struct {
	Tables map[string]snapshotTable `json:"tables"`
}

type snapshotTable struct {
	Name    string           `json:"name"`
	Columns []snapshotColumn `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

type snapshotColumn struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Length      int      `json:"length,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
}

// Save performs a full rewrite of the snapshot file with only live rows, in
// position order. It is a no-op when the database has no backing path.
// The write goes through a temp file and rename so a crash mid-write never
// leaves a half-written snapshot on disk.
func (db *Database) Save() error {
	if db.Path == "" {
		return nil
	}

	doc := snapshotDoc{Tables: make(map[string]snapshotTable, len(db.names))}
	for _, name := range db.names {
		t := db.tables[name]
		st := snapshotTable{Name: t.Name, Columns: make([]snapshotColumn, len(t.Columns))}
		for i, col := range t.Columns {
			sc := snapshotColumn{Name: col.Name, Type: col.Type.String()}
			if col.Type == schema.Varchar {
				sc.Length = col.VarcharLength
			}
			for _, c := range col.Constraints {
				sc.Constraints = append(sc.Constraints, c.String())
			}
			st.Columns[i] = sc
		}
		for _, r := range t.rows {
			if r == nil {
				continue
			}
			rowDoc := make(map[string]any, len(*r))
			for _, col := range t.Columns {
				rowDoc[col.Name] = (*r)[col.Name].Any()
			}
			st.Rows = append(st.Rows, rowDoc)
		}
		doc.Tables[name] = st
	}

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(db.Path)
	tmp, err := os.CreateTemp(dir, ".simpledb-snapshot-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, db.Path)
}

// Load replaces the in-memory table registry with the contents of the
// snapshot file. An empty or missing file yields an empty database. Rows
// are re-inserted through InsertRow so indexes are rebuilt and constraints
// re-validated; a corrupt snapshot surfaces as a load error.
func (db *Database) Load() error {
	data, err := os.ReadFile(db.Path)
	if err != nil {
		if os.IsNotExist(err) {
			db.tables = make(map[string]*Table)
			db.names = nil
			return nil
		}
		return err
	}
	if len(data) == 0 {
		db.tables = make(map[string]*Table)
		db.names = nil
		return nil
	}

	// UseNumber preserves row values as json.Number instead of float64 so
	// int64s beyond float64's 53-bit mantissa survive the round trip.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc snapshotDoc
	if err := dec.Decode(&doc); err != nil {
		return dberr.ParseError("corrupt snapshot: %v", err)
	}

	tables := make(map[string]*Table, len(doc.Tables))
	var names []string
	for name, st := range doc.Tables {
		columns := make([]schema.Column, len(st.Columns))
		for i, sc := range st.Columns {
			columns[i] = schema.NewColumn(sc.Name, parseColumnType(sc.Type), sc.Length, parseConstraints(sc.Constraints))
		}
		t := NewTable(name, columns)
		for _, rowDoc := range st.Rows {
			values := make(map[string]types.Value, len(rowDoc))
			for k, v := range rowDoc {
				values[k] = types.FromAny(v)
			}
			if _, err := t.InsertRow(values); err != nil {
				return dberr.ParseError("corrupt snapshot for table %q: %v", name, err)
			}
		}
		tables[name] = t
		names = append(names, name)
	}

	db.tables = tables
	db.names = names
	return nil
}

func parseColumnType(s string) schema.ColumnType {
	switch s {
	case "INT":
		return schema.Int
	case "BOOLEAN":
		return schema.Boolean
	default:
		return schema.Varchar
	}
}

func parseConstraints(in []string) []schema.Constraint {
	var out []schema.Constraint
	for _, s := range in {
		switch s {
		case "PRIMARY KEY":
			out = append(out, schema.PrimaryKey)
		case "UNIQUE":
			out = append(out, schema.Unique)
		case "NOT NULL":
			out = append(out, schema.NotNull)
		}
	}
	return out
}
