// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Column layout of the backing store. The order is fixed: every backend
// writes and reads rows in exactly this order.
const (
	ColDate = iota
	ColBikeModel
	ColMileage
	ColCategory
	ColDetails
	ColCost
	ColRecordedAt
	ColumnCount
)

// Header is the first row written to a freshly created store.
var Header = [ColumnCount]string{
	ColDate:       "날짜",
	ColBikeModel:  "차종",
	ColMileage:    "주행거리(km)",
	ColCategory:   "항목",
	ColDetails:    "내용",
	ColCost:       "비용(원)",
	ColRecordedAt: "기록일시",
}

// Serialized date formats.
const (
	DateLayout       = "2006-01-02"
	RecordedAtLayout = "2006-01-02 15:04:05"
)

// Record is one maintenance event. Records are immutable once appended.
type Record struct {
	Date       time.Time       // calendar date, time-of-day is always zero
	BikeModel  string          // free text, e.g. "존테스 350D"
	MileageKM  float64         // odometer reading at service time
	Category   string          // resolved category, never empty
	Details    string          // free text, may be empty
	Cost       decimal.Decimal // currency units are implicit (원)
	RecordedAt time.Time       // submission timestamp
}

// Submission is the raw form input before category resolution.
type Submission struct {
	Date           time.Time
	BikeModel      string
	MileageKM      float64
	PresetCategory string
	ManualCategory string
	Details        string
	Cost           decimal.Decimal
}

// DateOnly truncates t to its calendar date in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
