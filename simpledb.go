// Package simpledb is the library's public entry point: open a database
// backed by an optional snapshot file, then drive it one SQL statement at a
// time through Exec.
package simpledb

import (
	"simpledb/pkg/sql/executor"
	"simpledb/pkg/storage"
)

// Result is re-exported so callers never need to import pkg/sql/executor
// directly.
type Result = executor.Result

// DB is a single SimpleDB instance: a table registry plus the executor
// that drives SQL against it.
type DB struct {
	db     *storage.Database
	exec   *executor.Executor
	closed bool
}

// Open loads path's snapshot, if any, and returns a ready DB. An empty path
// yields a purely in-memory, non-persistent instance.
func Open(path string) (*DB, error) {
	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}
	return &DB{db: db, exec: executor.New(db)}, nil
}

// Exec parses and runs a single SQL statement. A
// statement run after Close reports failure rather than touching storage
// state that callers consider released.
func (d *DB) Exec(sql string) Result {
	if d.closed {
		return Result{Success: false, Error: "database is closed"}
	}
	return d.exec.Execute(sql)
}

// Path returns the snapshot file path this DB was opened with, or "" for a
// purely in-memory instance.
func (d *DB) Path() string { return d.db.Path }

// Tables lists table names in creation order.
func (d *DB) Tables() []string { return d.db.ListTables() }

// Close marks the DB unusable. SimpleDB holds no open file descriptors
// between statements (each snapshot save/load is a single complete file
// operation), so Close has nothing to release; it exists so callers have a
// symmetric lifecycle and so IsClosed can guard against use-after-close.
func (d *DB) Close() error {
	d.closed = true
	return nil
}

// IsClosed reports whether Close has been called.
func (d *DB) IsClosed() bool { return d.closed }
