package repository

import (
	"strings"

	"google.golang.org/api/option"
)

// XLSXOption configures an XLSXStore.
type XLSXOption func(*XLSXStore)

// WithXLSXSheet selects the worksheet; by default the first one is used and
// a new workbook gets DefaultXLSXSheet.
func WithXLSXSheet(name string) XLSXOption {
	return func(s *XLSXStore) {
		if name = strings.TrimSpace(name); name != "" {
			s.sheet = name
		}
	}
}

// SheetsOption configures a SheetsStore.
type SheetsOption func(*SheetsStore)

// WithSheetTitle selects the sub-sheet instead of the first one.
func WithSheetTitle(title string) SheetsOption {
	return func(s *SheetsStore) {
		if title = strings.TrimSpace(title); title != "" {
			s.title = title
		}
	}
}

// WithCredentialsJSON authenticates with an inline service-account key.
func WithCredentialsJSON(key []byte) SheetsOption {
	return func(s *SheetsStore) {
		if len(key) > 0 {
			s.clientOpts = append(s.clientOpts, option.WithCredentialsJSON(key))
		}
	}
}

// WithCredentialsFile authenticates with a service-account key file.
func WithCredentialsFile(path string) SheetsOption {
	return func(s *SheetsStore) {
		if path != "" {
			s.clientOpts = append(s.clientOpts, option.WithCredentialsFile(path))
		}
	}
}

// WithClientOptions passes raw client options, e.g. a test endpoint.
func WithClientOptions(opts ...option.ClientOption) SheetsOption {
	return func(s *SheetsStore) {
		s.clientOpts = append(s.clientOpts, opts...)
	}
}
