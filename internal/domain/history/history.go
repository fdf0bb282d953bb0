// Package history turns the stored rows into the history report: records in
// presentation order plus the aggregate statistics.
package history

import (
	"sort"
	"time"

	"github.com/okian/bikelog/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Report is the read-side view of the store.
type Report struct {
	// Records in presentation order (date descending).
	Records []model.Record
	// TotalCost is the sum of every record's cost.
	TotalCost decimal.Decimal
	// TotalCount is the number of records.
	TotalCount int
	// MostRecent is the first record in presentation order; nil when empty.
	MostRecent *model.Record
}

// Build sorts records for presentation and computes the statistics.
// records is in storage (insertion) order and is not modified.
//
// Ordering is by calendar date descending. Records sharing a date are
// ordered by RecordedAt descending and then by insertion descending, so the
// latest submission for the latest date is MostRecent. Records without a
// date sort last.
func Build(records []model.Record) Report {
	rep := Report{TotalCost: decimal.Zero}
	if len(records) == 0 {
		return rep
	}

	type indexed struct {
		pos int
		rec model.Record
	}
	rows := make([]indexed, len(records))
	for i, r := range records {
		r.Date = normalize(r.Date)
		rows[i] = indexed{pos: i, rec: r}
		rep.TotalCost = rep.TotalCost.Add(r.Cost)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.rec.Date.Equal(b.rec.Date) {
			switch {
			case a.rec.Date.IsZero():
				return false
			case b.rec.Date.IsZero():
				return true
			}
			return a.rec.Date.After(b.rec.Date)
		}
		if !a.rec.RecordedAt.Equal(b.rec.RecordedAt) {
			return a.rec.RecordedAt.After(b.rec.RecordedAt)
		}
		return a.pos > b.pos
	})

	rep.Records = make([]model.Record, len(rows))
	for i, row := range rows {
		rep.Records[i] = row.rec
	}
	rep.TotalCount = len(rep.Records)
	rep.MostRecent = &rep.Records[0]
	return rep
}

func normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return model.DateOnly(t)
}
