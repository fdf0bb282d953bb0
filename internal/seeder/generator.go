package seeder

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/okian/bikelog/internal/domain/model"
	"github.com/okian/bikelog/internal/domain/types"
	"github.com/okian/bikelog/pkg/logger"
	"github.com/shopspring/decimal"
)

// manualCategories are free-text items mixed in between the presets.
var manualCategories = []string{"체인 청소", "미러 교체", "핸들 열선 장착", "냉각수 보충"}

var details = []string{"", "정기 점검", "공임 포함", "부품 직접 구매", "센터 방문"}

// baseDate anchors the generated dates.
var baseDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local)

// generateSubmissions creates cfg.Count submissions. The same seed and
// options always give the same list; runID only tags the details.
func generateSubmissions(ctx context.Context, cfg *Config, opts types.FormOptions, runID string, stats *Stats) ([]types.Submission, error) {
	logger.Get().Info(ctx, "generating submissions", logger.Int("count", cfg.Count), logger.Any("seed", cfg.Seed))

	presets := choosablePresets(opts)
	if len(presets) == 0 {
		return nil, fmt.Errorf("%w: server offers no presets", ErrGenerate)
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	bike := cfg.BikeModel
	if bike == "" {
		bike = opts.DefaultBikeModel
	}

	subs := make([]types.Submission, cfg.Count)
	mileage := 0
	for i := range subs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGenerate, err)
		}
		mileage += mileageStepKM + rng.IntN(maxMileageJitter)
		sub := types.Submission{
			Date:           baseDate.AddDate(0, 0, i*daysPerRecord+rng.IntN(daysPerRecord)).Format(model.DateLayout),
			BikeModel:      bike,
			MileageKM:      float64(mileage),
			PresetCategory: presets[rng.IntN(len(presets))],
			Cost:           decimal.NewFromInt(int64(costStep * (1 + rng.IntN(maxCostSteps)))),
		}
		if rng.IntN(5) == 0 {
			sub.ManualCategory = manualCategories[rng.IntN(len(manualCategories))]
			if opts.Sentinel != "" {
				sub.PresetCategory = opts.Sentinel
			}
		}
		sub.Details = tagDetails(details[rng.IntN(len(details))], runID)
		subs[i] = sub
	}

	stats.Generated = len(subs)
	logger.Get().Info(ctx, "generated submissions", logger.Int("count", len(subs)))
	return subs, nil
}

// choosablePresets drops the sentinel, which is not a category by itself.
func choosablePresets(opts types.FormOptions) []string {
	out := make([]string, 0, len(opts.Presets))
	for _, p := range opts.Presets {
		if opts.Sentinel != "" && p == opts.Sentinel {
			continue
		}
		out = append(out, p)
	}
	return out
}

func tagDetails(d, runID string) string {
	if runID == "" {
		return d
	}
	if d == "" {
		return "seed " + runID
	}
	return d + " (seed " + runID + ")"
}
