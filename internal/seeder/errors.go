package seeder

import "errors"

// Error constants
var (
	ErrGenerate  = errors.New("seed generation failed")
	ErrService   = errors.New("service request failed")
	ErrMismatch  = errors.New("seeded data does not match")
	ErrNoRecords = errors.New("no records were stored")
)
