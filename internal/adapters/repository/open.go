package repository

import (
	"context"
	"fmt"

	"github.com/okian/bikelog/internal/config"
	"github.com/okian/bikelog/internal/domain/faults"
)

// Opener creates a ready-to-use Store. The service calls it lazily and
// again after a reset.
type Opener func(ctx context.Context) (Store, error)

// NewOpener returns an Opener for the backend selected in cfg. Stores it
// opens are instrumented. The memory backend hands out one shared store so
// a reset does not lose its rows.
func NewOpener(cfg *config.Config) Opener {
	var shared *MemoryStore
	return func(_ context.Context) (Store, error) {
		const op = "repository.open"
		var s Store
		switch cfg.StoreBackend {
		case config.BackendMemory:
			if shared == nil {
				shared = NewMemoryStore()
			}
			s = shared
		case config.BackendXLSX:
			if cfg.XLSXPath == "" {
				return nil, faults.Wrap(op, faults.ErrConfiguration, fmt.Errorf("%w: xlsx_path", ErrMissingSetting))
			}
			s = NewXLSXStore(cfg.XLSXPath, WithXLSXSheet(cfg.XLSXSheet))
		case config.BackendSQLite:
			if cfg.SQLitePath == "" {
				return nil, faults.Wrap(op, faults.ErrConfiguration, fmt.Errorf("%w: sqlite_path", ErrMissingSetting))
			}
			s = NewSQLiteStore(cfg.SQLitePath)
		case config.BackendSheets:
			if cfg.SheetsSpreadsheetID == "" {
				return nil, faults.Wrap(op, faults.ErrConfiguration, fmt.Errorf("%w: sheets_spreadsheet_id", ErrMissingSetting))
			}
			if cfg.SheetsCredentialsJSON == "" && cfg.SheetsCredentialsFile == "" {
				return nil, faults.Wrap(op, faults.ErrConfiguration, fmt.Errorf("%w: service account credentials", ErrMissingSetting))
			}
			s = NewSheetsStore(cfg.SheetsSpreadsheetID,
				WithSheetTitle(cfg.SheetsSheetTitle),
				WithCredentialsJSON([]byte(cfg.SheetsCredentialsJSON)),
				WithCredentialsFile(cfg.SheetsCredentialsFile),
			)
		default:
			return nil, faults.Wrap(op, faults.ErrConfiguration, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.StoreBackend))
		}
		return Instrument(s), nil
	}
}
