package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/okian/bikelog/internal/domain/faults"
	"github.com/okian/bikelog/internal/domain/model"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsStore keeps the log in a Google Sheets spreadsheet, addressed by
// spreadsheet id and a sub-sheet title (the first sub-sheet by default).
type SheetsStore struct {
	spreadsheetID string
	title         string
	clientOpts    []option.ClientOption

	// mu guards the lazily created service and serializes the header
	// check with the append that follows it.
	mu  sync.Mutex
	svc *sheets.Service
}

// NewSheetsStore returns a store for the given spreadsheet. No request is
// made until the first call.
func NewSheetsStore(spreadsheetID string, opts ...SheetsOption) *SheetsStore {
	s := &SheetsStore{spreadsheetID: spreadsheetID}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend implements Store.
func (s *SheetsStore) Backend() string { return "sheets" }

// Append implements Store.
func (s *SheetsStore) Append(ctx context.Context, r model.Record) error {
	const op = "sheets.append"
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connect(ctx); err != nil {
		return faults.Wrap(op, faults.ErrStoreConnection, err)
	}

	head, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.a1("A1:G1")).Context(ctx).Do()
	if err != nil {
		return faults.Wrap(op, faults.ErrStoreConnection, err)
	}
	if len(head.Values) == 0 {
		header := &sheets.ValueRange{Values: [][]interface{}{model.HeaderCells()}}
		if _, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, s.a1("A1:G1"), header).
			ValueInputOption("RAW").Context(ctx).Do(); err != nil {
			return faults.Wrap(op, faults.ErrAppend, err)
		}
	}

	row := &sheets.ValueRange{Values: [][]interface{}{r.Cells()}}
	if _, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, s.a1("A1"), row).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do(); err != nil {
		return faults.Wrap(op, faults.ErrAppend, err)
	}
	return nil
}

// Records implements Store.
func (s *SheetsStore) Records(ctx context.Context) ([]model.Record, error) {
	rows, err := s.values(ctx, "")
	if err != nil {
		return nil, faults.Wrap("sheets.records", faults.ErrStoreConnection, err)
	}
	return decodeRows(rows), nil
}

// Header implements Store.
func (s *SheetsStore) Header(ctx context.Context) ([]string, error) {
	rows, err := s.values(ctx, "A1:G1")
	if err != nil {
		return nil, faults.Wrap("sheets.header", faults.ErrStoreConnection, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Close implements Store. The HTTP client holds no per-store resources.
func (s *SheetsStore) Close() error {
	s.mu.Lock()
	s.svc = nil
	s.mu.Unlock()
	return nil
}

func (s *SheetsStore) values(ctx context.Context, cells string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.connect(ctx); err != nil {
		return nil, err
	}
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.a1(cells)).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = cellString(v)
		}
	}
	return out, nil
}

// connect builds the service and resolves the sub-sheet title once.
func (s *SheetsStore) connect(ctx context.Context) error {
	if s.svc != nil {
		return nil
	}
	if s.spreadsheetID == "" {
		return fmt.Errorf("%w: spreadsheet id", ErrMissingSetting)
	}
	opts := append([]option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}, s.clientOpts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return fmt.Errorf("sheets client: %w", err)
	}
	if s.title == "" {
		ss, err := svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("open spreadsheet %s: %w", s.spreadsheetID, err)
		}
		if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
			return fmt.Errorf("spreadsheet %s has no sheets", s.spreadsheetID)
		}
		s.title = ss.Sheets[0].Properties.Title
	}
	s.svc = svc
	return nil
}

// a1 builds a quoted A1 range on the configured sub-sheet; empty cells
// addresses the whole sheet.
func (s *SheetsStore) a1(cells string) string {
	name := "'" + strings.ReplaceAll(s.title, "'", "''") + "'"
	if cells == "" {
		return name
	}
	return name + "!" + cells
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return model.FormatNumber(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
