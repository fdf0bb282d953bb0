package seeder

import (
	"context"
	"fmt"

	"github.com/okian/bikelog/internal/domain/types"
	"github.com/okian/bikelog/pkg/logger"
)

// verifyReport checks that the history grew by exactly what was stored.
func verifyReport(ctx context.Context, before, after types.Report, stats *Stats) error {
	logger.Get().Info(ctx, "verifying history")

	stats.CountBefore, stats.CountAfter = before.TotalCount, after.TotalCount
	stats.TotalCostBefore, stats.TotalCostAfter = before.TotalCost, after.TotalCost

	if stats.Successful == 0 {
		return ErrNoRecords
	}
	if got := after.TotalCount - before.TotalCount; got != stats.Successful {
		return fmt.Errorf("%w: count grew by %d, stored %d", ErrMismatch, got, stats.Successful)
	}
	if got := after.TotalCost.Sub(before.TotalCost); !got.Equal(stats.SuccessfulCost) {
		return fmt.Errorf("%w: total cost grew by %s, stored %s", ErrMismatch, got, stats.SuccessfulCost)
	}
	if len(after.Records) != after.TotalCount {
		return fmt.Errorf("%w: %d rows but total_count %d", ErrMismatch, len(after.Records), after.TotalCount)
	}
	if err := verifyOrder(after.Records); err != nil {
		return err
	}

	logger.Get().Info(ctx, "history verified",
		logger.Int("countDelta", stats.Successful),
		logger.String("costDelta", stats.SuccessfulCost.String()))
	return nil
}

// verifyOrder checks newest-first order. Dates are YYYY-MM-DD, so string
// order is date order; undated rows may only trail.
func verifyOrder(records []types.Record) error {
	undated := false
	for i, r := range records {
		if r.Date == "" {
			undated = true
			continue
		}
		if undated {
			return fmt.Errorf("%w: dated row %d after an undated row", ErrMismatch, i)
		}
		if i > 0 && records[i-1].Date < r.Date {
			return fmt.Errorf("%w: row %d (%s) is newer than row %d (%s)", ErrMismatch, i, r.Date, i-1, records[i-1].Date)
		}
	}
	return nil
}
