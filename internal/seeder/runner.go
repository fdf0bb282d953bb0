// Package seeder fills a running service with sample maintenance records
// through its JSON API and checks that the history reflects them.
package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/okian/bikelog/internal/domain/types"
	"github.com/okian/bikelog/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes a complete seeding run and returns its statistics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", ErrGenerate)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	stats := &Stats{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	log := logger.Get()

	log.Info(ctx, "starting seed run",
		logger.String("runID", stats.RunID),
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("count", cfg.Count),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: Check service health
	if err := client.getJSON(ctx, "/healthz", nil); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Read form options and the current history
	var opts types.FormOptions
	if err := client.getJSON(ctx, "/api/options", &opts); err != nil {
		return stats, fmt.Errorf("options retrieval failed: %w", err)
	}
	var before types.Report
	if err := client.getJSON(ctx, "/api/records", &before); err != nil {
		return stats, fmt.Errorf("history retrieval failed: %w", err)
	}

	// Step 3: Generate and submit
	subs, err := generateSubmissions(ctx, cfg, opts, shortID(stats.RunID), stats)
	if err != nil {
		return stats, err
	}
	submitRecords(ctx, cfg, client, subs, stats)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	// Step 4: Re-read and verify
	var after types.Report
	if err := client.getJSON(ctx, "/api/records", &after); err != nil {
		return stats, fmt.Errorf("history retrieval failed: %w", err)
	}
	if err := verifyReport(ctx, before, after, stats); err != nil {
		return stats, err
	}

	if cfg.OutputFile != "" {
		if err := saveSubmissions(ctx, cfg.OutputFile, subs); err != nil {
			log.Warn(ctx, "failed to save submissions to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// saveSubmissions writes the generated submissions as a JSON array.
func saveSubmissions(ctx context.Context, filename string, subs []types.Submission) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submissions: %w", err)
	}
	if err := os.WriteFile(filename, append(data, '\n'), filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "submissions saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, recordsPerSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Successful) / float64(stats.Submitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		recordsPerSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.String("runID", stats.RunID),
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("countAfter", stats.CountAfter),
		logger.String("totalCostAfter", stats.TotalCostAfter.String()),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("recordsPerSecond", recordsPerSecond))
}
