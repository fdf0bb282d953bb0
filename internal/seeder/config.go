package seeder

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Count      int           // Number of records to submit
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	Seed       uint64        // Generator seed; equal seeds give equal records
	BikeModel  string        // Bike model on every record; empty uses the server default
	OutputFile string        // Optional JSON dump of the generated submissions
	Verbose    bool          // Log every submission
}

// Stats holds run statistics.
type Stats struct {
	RunID           string
	Generated       int
	Submitted       int
	Successful      int
	Failed          int
	SuccessfulCost  decimal.Decimal
	CountBefore     int
	CountAfter      int
	TotalCostBefore decimal.Decimal
	TotalCostAfter  decimal.Decimal
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
