/*
Package results records measurements of image operations, such as pixel
memory accesses and elapsed time, in a SQLite database so runs can be
compared later.
*/
package results

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Run is a single measured operation.
type Run struct {
	ID          int64
	Op          string
	File        string
	Width       int
	Height      int
	PixMem      uint64
	Comparisons int
	Elapsed     time.Duration
	Created     time.Time
}

// DB is a handle to the results database.
type DB struct {
	db *sql.DB
}

// Open opens the database in the named file, creating it if necessary.
func Open(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_busy_timeout=5000", file))
	if err != nil {
		return nil, errors.Wrap(err, "open results database")
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS run (id INTEGER PRIMARY KEY NOT NULL, op TEXT NOT NULL, file TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, pixmem INTEGER NOT NULL, comparisons INTEGER NOT NULL, elapsed_ns INTEGER NOT NULL, created INTEGER NOT NULL)"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create run table")
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

// Record stores r and returns its ID. A zero Created time is set to now.
func (db *DB) Record(r Run) (int64, error) {
	if r.Created.IsZero() {
		r.Created = time.Now()
	}
	result, err := db.db.Exec("INSERT INTO run (op, file, width, height, pixmem, comparisons, elapsed_ns, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		r.Op, r.File, r.Width, r.Height, int64(r.PixMem), r.Comparisons, r.Elapsed.Nanoseconds(), r.Created.UnixNano())
	if err != nil {
		return 0, errors.Wrapf(err, "record %s run", r.Op)
	}
	return result.LastInsertId()
}

// Runs returns the recorded runs of op in the order they were recorded. An
// empty op returns every run.
func (db *DB) Runs(op string) ([]Run, error) {
	var rows *sql.Rows
	var err error
	if op == "" {
		rows, err = db.db.Query("SELECT id, op, file, width, height, pixmem, comparisons, elapsed_ns, created FROM run ORDER BY id")
	} else {
		rows, err = db.db.Query("SELECT id, op, file, width, height, pixmem, comparisons, elapsed_ns, created FROM run WHERE op = ? ORDER BY id", op)
	}
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var pixmem, elapsed, created int64
		if err := rows.Scan(&r.ID, &r.Op, &r.File, &r.Width, &r.Height, &pixmem, &r.Comparisons, &elapsed, &created); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		r.PixMem = uint64(pixmem)
		r.Elapsed = time.Duration(elapsed)
		r.Created = time.Unix(0, created)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
