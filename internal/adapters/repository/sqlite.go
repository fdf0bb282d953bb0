package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/bikelog/internal/domain/faults"
	"github.com/okian/bikelog/internal/domain/model"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const (
	sqliteRecordsTable = "maintenance_records"
	sqliteHeaderTable  = "sheet_header"
)

// Rows are stored as text in the same serialized form the spreadsheet
// backends use, so every backend decodes through model.Columns.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sheet_header (
	position INTEGER PRIMARY KEY,
	label    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS maintenance_records (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	date        TEXT NOT NULL,
	bike_model  TEXT NOT NULL,
	mileage_km  TEXT NOT NULL,
	category    TEXT NOT NULL,
	details     TEXT NOT NULL,
	cost        TEXT NOT NULL,
	recorded_at TEXT NOT NULL
);`

var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA synchronous = NORMAL",
}

// SQLiteStore keeps the log in a local SQLite database.
type SQLiteStore struct {
	path string

	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore returns a store backed by the database file at path. The
// file and tables are created by the first Append.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Backend implements Store.
func (s *SQLiteStore) Backend() string { return "sqlite" }

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, r model.Record) error {
	const op = "sqlite.append"
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.open(ctx, true)
	if err != nil {
		return faults.Wrap(op, faults.ErrStoreConnection, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return faults.Wrap(op, faults.ErrStoreConnection, err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := ensureSchema(ctx, tx); err != nil {
		return faults.Wrap(op, faults.ErrAppend, err)
	}

	cells := r.Strings()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO maintenance_records (date, bike_model, mileage_km, category, details, cost, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cells[model.ColDate], cells[model.ColBikeModel], cells[model.ColMileage], cells[model.ColCategory],
		cells[model.ColDetails], cells[model.ColCost], cells[model.ColRecordedAt],
	); err != nil {
		return faults.Wrap(op, faults.ErrAppend, err)
	}
	if err := tx.Commit(); err != nil {
		return faults.Wrap(op, faults.ErrAppend, err)
	}
	return nil
}

// Records implements Store.
func (s *SQLiteStore) Records(ctx context.Context) ([]model.Record, error) {
	const op = "sqlite.records"
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.open(ctx, false)
	if err != nil {
		return nil, faults.Wrap(op, faults.ErrStoreConnection, err)
	}
	if db == nil {
		return nil, nil
	}
	header, err := readHeader(ctx, db)
	if err != nil {
		return nil, faults.Wrap(op, faults.ErrStoreConnection, err)
	}
	if header == nil {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx,
		`SELECT date, bike_model, mileage_km, category, details, cost, recorded_at
		 FROM maintenance_records ORDER BY id`)
	if err != nil {
		return nil, faults.Wrap(op, faults.ErrStoreConnection, err)
	}
	defer func() { _ = rows.Close() }()

	table := [][]string{headerRow()}
	for rows.Next() {
		cells := make([]string, model.ColumnCount)
		if err := rows.Scan(&cells[0], &cells[1], &cells[2], &cells[3], &cells[4], &cells[5], &cells[6]); err != nil {
			return nil, faults.Wrap(op, faults.ErrStoreConnection, err)
		}
		table = append(table, cells)
	}
	if err := rows.Err(); err != nil {
		return nil, faults.Wrap(op, faults.ErrStoreConnection, err)
	}
	return decodeRows(table), nil
}

// Header implements Store.
func (s *SQLiteStore) Header(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.open(ctx, false)
	if err != nil {
		return nil, faults.Wrap("sqlite.header", faults.ErrStoreConnection, err)
	}
	if db == nil {
		return nil, nil
	}
	header, err := readHeader(ctx, db)
	if err != nil {
		return nil, faults.Wrap("sqlite.header", faults.ErrStoreConnection, err)
	}
	return header, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// open returns the shared handle. With create unset a missing database file
// yields a nil handle instead of an empty new file.
func (s *SQLiteStore) open(ctx context.Context, create bool) (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		if !create {
			return nil, nil
		}
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	for _, p := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	s.db = db
	return db, nil
}

// ensureSchema creates both tables and seeds the header labels once.
func ensureSchema(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM sheet_header`).Scan(&n); err != nil {
		return fmt.Errorf("count header: %w", err)
	}
	if n > 0 {
		return nil
	}
	for pos, label := range model.Header {
		if _, err := tx.ExecContext(ctx, `INSERT INTO sheet_header (position, label) VALUES (?, ?)`, pos, label); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	return nil
}

// readHeader returns nil when the schema has not been created yet.
func readHeader(ctx context.Context, db *sql.DB) ([]string, error) {
	var n int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN (?, ?)`,
		sqliteHeaderTable, sqliteRecordsTable,
	).Scan(&n); err != nil {
		return nil, err
	}
	if n < 2 {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx, `SELECT label FROM sheet_header ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var header []string
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, err
		}
		header = append(header, label)
	}
	return header, rows.Err()
}
