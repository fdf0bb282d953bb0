// Package repository persists maintenance records in a tabular backing store.
//
// Every backend lays rows out in the fixed column order of model.Header and
// creates the store lazily: the header row is written by the first Append.
package repository

import (
	"context"
	"strings"

	"github.com/okian/bikelog/internal/domain/model"
)

// Store provides append-only access to the maintenance log.
type Store interface {
	// Append writes r as one row. A store that does not exist yet is created
	// with the header row first.
	Append(ctx context.Context, r model.Record) error

	// Records returns every stored record in insertion order. A store that
	// does not exist yet holds no records.
	Records(ctx context.Context) ([]model.Record, error)

	// Header returns the header row, or nil if the store does not exist yet.
	Header(ctx context.Context) ([]string, error)

	// Backend names the implementation.
	Backend() string

	// Close releases the connection or file handles held by the store.
	Close() error
}

// decodeRows turns raw rows (header first) into records. Blank rows are
// skipped. Cells that fail to parse leave their field zero; the row is kept.
func decodeRows(rows [][]string) []model.Record {
	if len(rows) == 0 {
		return nil
	}
	cols := model.ColumnsFromHeader(rows[0])
	data := rows[1:]
	if len(cols) == 0 {
		// Headerless sheet: read it positionally.
		cols = model.DefaultColumns()
		data = rows
	}

	out := make([]model.Record, 0, len(data))
	for _, row := range data {
		if blank(row) {
			continue
		}
		r, _ := cols.Decode(row)
		out = append(out, r)
	}
	return out
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func headerRow() []string {
	return append([]string(nil), model.Header[:]...)
}
