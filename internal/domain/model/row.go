package model

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Sentinel kinds for row decoding.
var (
	ErrBadDate   = errors.New("unparseable date")
	ErrBadNumber = errors.New("unparseable number")
)

// dateLayouts are tried in order when reading a date cell back.
var dateLayouts = []string{
	DateLayout,
	RecordedAtLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2006.01.02",
	"2006. 1. 2",
}

// spreadsheet day zero for serial date numbers.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Strings serializes r into the fixed column order with text cells only.
func (r Record) Strings() []string {
	out := make([]string, ColumnCount)
	out[ColDate] = r.Date.Format(DateLayout)
	out[ColBikeModel] = r.BikeModel
	out[ColMileage] = FormatNumber(r.MileageKM)
	out[ColCategory] = r.Category
	out[ColDetails] = r.Details
	out[ColCost] = r.Cost.String()
	out[ColRecordedAt] = r.RecordedAt.Format(RecordedAtLayout)
	return out
}

// Cells serializes r into the fixed column order keeping numbers numeric,
// for backends that distinguish number cells from text cells. A cost that a
// spreadsheet number cannot hold exactly is written as text.
func (r Record) Cells() []any {
	return []any{
		r.Date.Format(DateLayout),
		r.BikeModel,
		r.MileageKM,
		r.Category,
		r.Details,
		moneyCell(r.Cost),
		r.RecordedAt.Format(RecordedAtLayout),
	}
}

// maxCellDigits is the precision spreadsheets keep for number cells.
const maxCellDigits = 15

func moneyCell(d decimal.Decimal) any {
	f := d.InexactFloat64()
	digits := strings.TrimRight(new(big.Int).Abs(d.Coefficient()).String(), "0")
	if len(digits) <= maxCellDigits && decimal.NewFromFloat(f).Equal(d) {
		return f
	}
	return d.String()
}

// HeaderCells returns Header as a slice of cells.
func HeaderCells() []any {
	out := make([]any, ColumnCount)
	for i, h := range Header {
		out[i] = h
	}
	return out
}

// Columns maps header labels to cell positions. Rows read from a store are
// decoded through it so a reordered or partial header still works.
type Columns map[int]int

// ColumnsFromHeader builds Columns from a header row. Labels that are not
// part of Header are ignored; missing labels leave their field unset.
func ColumnsFromHeader(header []string) Columns {
	cols := make(Columns, ColumnCount)
	for pos, label := range header {
		label = strings.TrimSpace(label)
		for field, want := range Header {
			if label == want {
				if _, dup := cols[field]; !dup {
					cols[field] = pos
				}
			}
		}
	}
	return cols
}

// DefaultColumns is the identity layout.
func DefaultColumns() Columns {
	cols := make(Columns, ColumnCount)
	for i := 0; i < ColumnCount; i++ {
		cols[i] = i
	}
	return cols
}

// Has reports whether the layout carries field.
func (c Columns) Has(field int) bool {
	_, ok := c[field]
	return ok
}

func (c Columns) cell(cells []string, field int) string {
	pos, ok := c[field]
	if !ok || pos >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[pos])
}

// Decode reads one stored row. Empty numeric cells decode as zero; an empty
// or unparseable date leaves Date zero and is reported through the error
// while the remaining fields are still filled in.
func (c Columns) Decode(cells []string) (Record, error) {
	var (
		r    Record
		errs []error
	)
	r.BikeModel = c.cell(cells, ColBikeModel)
	r.Category = c.cell(cells, ColCategory)
	r.Details = c.cell(cells, ColDetails)

	if s := c.cell(cells, ColDate); s != "" {
		d, err := ParseDate(s)
		if err != nil {
			errs = append(errs, err)
		} else {
			r.Date = d
		}
	}
	if s := c.cell(cells, ColMileage); s != "" {
		v, err := ParseNumber(s)
		if err != nil {
			errs = append(errs, err)
		} else {
			r.MileageKM = v
		}
	}
	if s := c.cell(cells, ColCost); s != "" {
		v, err := ParseMoney(s)
		if err != nil {
			errs = append(errs, err)
		} else {
			r.Cost = v
		}
	}
	if s := c.cell(cells, ColRecordedAt); s != "" {
		ts, err := ParseTimestamp(s)
		if err != nil {
			errs = append(errs, err)
		} else {
			r.RecordedAt = ts
		}
	}
	return r, errors.Join(errs...)
}

// ParseDate reads a date cell and drops any time-of-day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return DateOnly(t), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		d := serialEpoch.AddDate(0, 0, int(math.Floor(serial)))
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}

// ParseTimestamp reads a recorded-at cell.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{RecordedAtLayout, time.RFC3339, "2006-01-02T15:04:05", DateLayout} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
}

// ParseNumber reads a numeric cell, tolerating thousands separators.
func ParseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(stripNumber(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	return v, nil
}

// ParseMoney reads a cost cell exactly, tolerating thousands separators.
func ParseMoney(s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(stripNumber(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrBadNumber, s)
	}
	return v, nil
}

// FormatNumber renders v in plain decimal notation without trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func stripNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "원")
	return strings.TrimSpace(s)
}
