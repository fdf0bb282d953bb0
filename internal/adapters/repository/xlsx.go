package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/okian/bikelog/internal/domain/faults"
	"github.com/okian/bikelog/internal/domain/model"
	"github.com/xuri/excelize/v2"
)

// DefaultXLSXSheet names the sheet of a freshly created workbook.
const DefaultXLSXSheet = "정비기록"

// XLSXStore keeps the log in a local .xlsx workbook. The workbook is
// reopened on every call so edits made in a spreadsheet program between
// requests are picked up.
type XLSXStore struct {
	path  string
	sheet string // empty means the first sheet of the workbook

	// mu serializes the exists-check, header write and row append.
	mu sync.Mutex
}

// NewXLSXStore returns a store backed by the workbook at path. The file is
// not touched until the first Append.
func NewXLSXStore(path string, opts ...XLSXOption) *XLSXStore {
	s := &XLSXStore{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend implements Store.
func (s *XLSXStore) Backend() string { return "xlsx" }

// Append implements Store.
func (s *XLSXStore) Append(_ context.Context, r model.Record) error {
	const op = "xlsx.append"
	s.mu.Lock()
	defer s.mu.Unlock()

	f, sheet, err := s.openOrCreate()
	if err != nil {
		return faults.Wrap(op, faults.ErrStoreConnection, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return faults.Wrap(op, faults.ErrStoreConnection, err)
	}
	next := len(rows) + 1
	if len(rows) == 0 {
		if err := setRow(f, sheet, 1, model.HeaderCells()); err != nil {
			return faults.Wrap(op, faults.ErrAppend, err)
		}
		next = 2
	}
	if err := setRow(f, sheet, next, r.Cells()); err != nil {
		return faults.Wrap(op, faults.ErrAppend, err)
	}
	if err := f.SaveAs(s.path); err != nil {
		return faults.Wrap(op, faults.ErrAppend, err)
	}
	return nil
}

// Records implements Store.
func (s *XLSXStore) Records(_ context.Context) ([]model.Record, error) {
	rows, err := s.rows()
	if err != nil {
		return nil, faults.Wrap("xlsx.records", faults.ErrStoreConnection, err)
	}
	return decodeRows(rows), nil
}

// Header implements Store.
func (s *XLSXStore) Header(_ context.Context) ([]string, error) {
	rows, err := s.rows()
	if err != nil {
		return nil, faults.Wrap("xlsx.header", faults.ErrStoreConnection, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Close implements Store. The workbook is never held open between calls.
func (s *XLSXStore) Close() error { return nil }

func (s *XLSXStore) rows() ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheet, err := s.sheetName(f)
	if err != nil {
		return nil, err
	}
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		return nil, nil
	}
	return f.GetRows(sheet)
}

// openOrCreate opens the workbook or builds a new one in memory; the caller
// saves it. The target sheet is created when missing.
func (s *XLSXStore) openOrCreate() (*excelize.File, string, error) {
	f, err := excelize.OpenFile(s.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return nil, "", err
		}
		f = excelize.NewFile()
		name := s.sheet
		if name == "" {
			name = DefaultXLSXSheet
		}
		if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
			_ = f.Close()
			return nil, "", err
		}
		return f, name, nil
	case err != nil:
		return nil, "", err
	}

	sheet, err := s.sheetName(f)
	if err != nil {
		_ = f.Close()
		return nil, "", err
	}
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		if _, err := f.NewSheet(sheet); err != nil {
			_ = f.Close()
			return nil, "", err
		}
	}
	return f, sheet, nil
}

func (s *XLSXStore) sheetName(f *excelize.File) (string, error) {
	if s.sheet != "" {
		return s.sheet, nil
	}
	list := f.GetSheetList()
	if len(list) == 0 {
		return "", fmt.Errorf("workbook %s has no sheets", s.path)
	}
	return list[0], nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}
