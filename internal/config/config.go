// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"github.com/okian/bikelog/internal/domain/category"
)

// Store backends.
const (
	BackendSheets = "sheets"
	BackendXLSX   = "xlsx"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text, json or tint.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":8501".
	Addr string `koanf:"addr"`

	// StoreBackend selects the backing store: sheets, xlsx, sqlite or memory.
	StoreBackend string `koanf:"store_backend"`
	// XLSXPath is the workbook used by the xlsx backend.
	XLSXPath string `koanf:"xlsx_path"`
	// XLSXSheet names the worksheet; empty means the first one.
	XLSXSheet string `koanf:"xlsx_sheet"`
	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`
	// SheetsSpreadsheetID addresses the remote spreadsheet.
	SheetsSpreadsheetID string `koanf:"sheets_spreadsheet_id"`
	// SheetsSheetTitle picks a sub-sheet; empty means the first one.
	SheetsSheetTitle string `koanf:"sheets_sheet_title"`
	// SheetsCredentialsFile is a service-account JSON key file.
	SheetsCredentialsFile string `koanf:"sheets_credentials_file"`
	// SheetsCredentialsJSON is the service-account key inline; usually filled from the secrets file.
	SheetsCredentialsJSON string `koanf:"sheets_credentials_json"`

	// SearchEndpoint is the manual search API URL.
	SearchEndpoint string `koanf:"search_endpoint"`
	// SearchAPIKey is sent as a bearer token.
	SearchAPIKey string `koanf:"search_api_key"`
	// SearchTimeoutMS bounds a single search call.
	SearchTimeoutMS int `koanf:"search_timeout_ms"`
	// SearchCacheSize bounds the number of cached search results.
	SearchCacheSize int `koanf:"search_cache_size"`

	// CategoryMode is "priority" or "sentinel".
	CategoryMode string `koanf:"category_mode"`
	// CategorySentinel is the "enter manually" preset in sentinel mode.
	CategorySentinel string `koanf:"category_sentinel"`
	// CategoryPresets is the preset list of the entry form.
	CategoryPresets []string `koanf:"category_presets"`
	// DefaultBikeModel pre-fills the entry form.
	DefaultBikeModel string `koanf:"default_bike_model"`
	// BikeModels and Symptoms are the manual search choices.
	BikeModels []string `koanf:"bike_models"`
	Symptoms   []string `koanf:"symptoms"`

	// SecretsFile is a TOML file with [gcp_service_account] and [notebooklm] tables.
	SecretsFile string `koanf:"secrets_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":8501",
		StoreBackend:     BackendXLSX,
		XLSXPath:         "./data/maintenance_log.xlsx",
		SQLitePath:       "./data/maintenance_log.db",
		SearchTimeoutMS:  20_000,
		SearchCacheSize:  256,
		CategoryMode:     string(category.ModePriority),
		CategorySentinel: category.DefaultSentinel,
		CategoryPresets:  append([]string(nil), category.DefaultPresets...),
		DefaultBikeModel: "존테스 350D",
		BikeModels:       []string{"존테스 350D", "혼다 PCX", "야마하 NMAX", "가와사키 Z시리즈", "기타"},
		Symptoms:         []string{"시동 불량", "이상 진동", "브레이크 소음", "체인/벨트 문제", "전기장치 경고", "기타"},
	}
}

// SearchEnabled reports whether both search credentials are present.
func (c *Config) SearchEnabled() bool {
	return c.SearchEndpoint != "" && c.SearchAPIKey != ""
}
