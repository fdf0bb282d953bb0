// Package app provides the maintenance log service that implements
// the dependencies required by the HTTP adapters.
package app

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/okian/bikelog/internal/adapters/repository"
	"github.com/okian/bikelog/internal/adapters/search"
	"github.com/okian/bikelog/internal/domain/category"
	"github.com/okian/bikelog/internal/domain/faults"
	"github.com/okian/bikelog/internal/domain/history"
	"github.com/okian/bikelog/internal/domain/model"
	"github.com/okian/bikelog/internal/domain/types"
	"github.com/okian/bikelog/pkg/logger"
	"github.com/okian/bikelog/pkg/metrics"
)

// Service implements the write, read and search paths of the log.
type Service struct {
	// mu guards the lazily opened store handle.
	mu    sync.Mutex
	open  repository.Opener
	store repository.Store

	resolver *category.Resolver
	search   *search.Client
	now      func() time.Time

	defaultBikeModel string
	bikeModels       []string
	symptoms         []string

	started bool
	logger  logger.Logger
}

// New constructs a new Service. Without options it keeps records in memory
// and has search disabled.
func New(opts ...Option) *Service {
	defaults := memoryConfig()
	s := &Service{
		open:             repository.NewOpener(defaults),
		resolver:         category.New(),
		search:           search.New(),
		now:              time.Now,
		defaultBikeModel: defaults.DefaultBikeModel,
		bikeModels:       defaults.BikeModels,
		symptoms:         defaults.Symptoms,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start prepares the service for requests. The store itself is opened on
// first use.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.started = true
	s.logger.Info(ctx, "maintenance log service started",
		logger.String("categoryMode", string(s.resolver.Mode())),
		logger.Int("presets", len(s.resolver.Presets())),
		logger.Any("searchEnabled", s.search.Enabled()),
	)
	return nil
}

// Stop closes the store connection.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.closeStoreLocked(context.Background())
	s.started = false
	s.logger.Info(context.Background(), "maintenance log service stopped")
}

// Submit resolves the category of sub, stamps it and appends it to the store.
func (s *Service) Submit(ctx context.Context, sub model.Submission) (model.Record, error) {
	const op = "app.submit"
	if err := validate(sub); err != nil {
		metrics.RecordValidationReject()
		return model.Record{}, faults.Wrap(op, faults.ErrValidation, err)
	}
	cat, err := s.resolver.Resolve(sub.PresetCategory, sub.ManualCategory)
	if err != nil {
		metrics.RecordValidationReject()
		return model.Record{}, err
	}

	now := s.now()
	date := sub.Date
	if date.IsZero() {
		date = now
	}
	bike := strings.TrimSpace(sub.BikeModel)
	if bike == "" {
		bike = s.defaultBikeModel
	}
	rec := model.Record{
		Date:       model.DateOnly(date),
		BikeModel:  bike,
		MileageKM:  sub.MileageKM,
		Category:   cat,
		Details:    strings.TrimSpace(sub.Details),
		Cost:       sub.Cost,
		RecordedAt: now.Truncate(time.Second),
	}

	st, err := s.storeFor(ctx)
	if err != nil {
		return model.Record{}, err
	}
	if err := st.Append(ctx, rec); err != nil {
		s.log().Error(ctx, "append failed", logger.String("backend", st.Backend()), logger.Error(err))
		return model.Record{}, err
	}
	s.log().Info(ctx, "record appended",
		logger.String("category", rec.Category),
		logger.String("date", rec.Date.Format(model.DateLayout)),
		logger.String("cost", rec.Cost.String()),
	)
	return rec, nil
}

// History loads every record and aggregates the totals.
func (s *Service) History(ctx context.Context) (history.Report, error) {
	st, err := s.storeFor(ctx)
	if err != nil {
		return history.Report{}, err
	}
	records, err := st.Records(ctx)
	if err != nil {
		s.log().Error(ctx, "history load failed", logger.String("backend", st.Backend()), logger.Error(err))
		return history.Report{}, err
	}
	report := history.Build(records)
	metrics.UpdateHistory(report.TotalCount, report.TotalCost.InexactFloat64())
	return report, nil
}

// ResetStore drops the cached store connection; the next call reconnects
// and sees changes made outside this process.
func (s *Service) ResetStore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeStoreLocked(ctx)
	metrics.RecordStoreReset()
	s.log().Info(ctx, "store connection reset")
}

// Search forwards q to the manual search client.
func (s *Service) Search(ctx context.Context, q search.Query) (search.Result, error) {
	res, err := s.search.Search(ctx, q)
	if err != nil {
		s.log().Warn(ctx, "manual search failed", logger.String("keyword", q.Keyword), logger.Error(err))
		return nil, err
	}
	return res, nil
}

// ClearSearchCache forgets every cached search answer.
func (s *Service) ClearSearchCache(ctx context.Context) {
	s.search.ClearCache(ctx)
}

// Options returns the form choices.
func (s *Service) Options() types.FormOptions {
	o := types.FormOptions{
		CategoryMode:     string(s.resolver.Mode()),
		Presets:          s.resolver.Presets(),
		DefaultCategory:  s.resolver.Default(),
		DefaultBikeModel: s.defaultBikeModel,
		BikeModels:       append([]string(nil), s.bikeModels...),
		Symptoms:         append([]string(nil), s.symptoms...),
		SearchEnabled:    s.search.Enabled(),
	}
	if s.resolver.Mode() == category.ModeSentinel {
		o.Sentinel = s.resolver.Sentinel()
	}
	return o
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	hits, misses := s.search.CacheStats()
	stats := map[string]interface{}{
		"started":           s.started,
		"storeOpen":         s.store != nil,
		"categoryMode":      string(s.resolver.Mode()),
		"searchEnabled":     s.search.Enabled(),
		"searchCacheSize":   s.search.CacheLen(),
		"searchCacheHits":   hits,
		"searchCacheMisses": misses,
	}
	if s.store != nil {
		stats["backend"] = s.store.Backend()
	}
	return stats
}

// storeFor returns the open store, opening it on first use.
func (s *Service) storeFor(ctx context.Context) (repository.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store != nil {
		return s.store, nil
	}
	st, err := s.open(ctx)
	if err != nil {
		s.log().Error(ctx, "store open failed", logger.Error(err))
		return nil, err
	}
	s.store = st
	s.log().Debug(ctx, "store opened", logger.String("backend", st.Backend()))
	return st, nil
}

func (s *Service) closeStoreLocked(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.log().Warn(ctx, "store close failed", logger.Error(err))
	}
	s.store = nil
}

// log returns the configured logger, falling back to the global one.
func (s *Service) log() logger.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logger.Get()
}

func validate(sub model.Submission) error {
	switch {
	case math.IsNaN(sub.MileageKM) || math.IsInf(sub.MileageKM, 0):
		return fmt.Errorf("mileage must be a finite number")
	case sub.MileageKM < 0:
		return fmt.Errorf("mileage must not be negative: %s", model.FormatNumber(sub.MileageKM))
	case sub.Cost.IsNegative():
		return fmt.Errorf("cost must not be negative: %s", sub.Cost.String())
	}
	return nil
}
