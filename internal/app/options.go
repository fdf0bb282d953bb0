package app

import (
	"time"

	"github.com/okian/bikelog/internal/adapters/repository"
	"github.com/okian/bikelog/internal/adapters/search"
	"github.com/okian/bikelog/internal/config"
	"github.com/okian/bikelog/internal/domain/category"
	"github.com/okian/bikelog/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStoreOpener sets how the backing store is opened.
func WithStoreOpener(open repository.Opener) Option {
	return func(s *Service) {
		if open != nil {
			s.open = open
		}
	}
}

// WithResolver sets the category resolver.
func WithResolver(r *category.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithSearchClient sets the manual search client.
func WithSearchClient(c *search.Client) Option {
	return func(s *Service) {
		if c != nil {
			s.search = c
		}
	}
}

// WithClock replaces time.Now, used for recorded-at stamps and the default date.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaultBikeModel sets the model used when a submission leaves it empty.
func WithDefaultBikeModel(model string) Option {
	return func(s *Service) {
		if model != "" {
			s.defaultBikeModel = model
		}
	}
}

// WithFormChoices sets the bike models and symptoms offered by the search form.
func WithFormChoices(bikeModels, symptoms []string) Option {
	return func(s *Service) {
		s.bikeModels = append([]string(nil), bikeModels...)
		s.symptoms = append([]string(nil), symptoms...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// FromConfig translates cfg into options. It fails only on settings that
// cannot be used at all; missing search credentials surface on first search.
// log may be nil.
func FromConfig(cfg *config.Config, log logger.Logger) ([]Option, error) {
	mode, err := category.ParseMode(cfg.CategoryMode)
	if err != nil {
		return nil, err
	}
	resolver := category.New(
		category.WithMode(mode),
		category.WithSentinel(cfg.CategorySentinel),
		category.WithPresets(cfg.CategoryPresets),
	)
	searchOpts := []search.Option{
		search.WithEndpoint(cfg.SearchEndpoint),
		search.WithAPIKey(cfg.SearchAPIKey),
		search.WithTimeout(time.Duration(cfg.SearchTimeoutMS) * time.Millisecond),
		search.WithCacheSize(cfg.SearchCacheSize),
	}
	if log != nil {
		searchOpts = append(searchOpts, search.WithLogger(log.Named("search")))
	}
	client := search.New(searchOpts...)
	return []Option{
		WithStoreOpener(repository.NewOpener(cfg)),
		WithResolver(resolver),
		WithSearchClient(client),
		WithDefaultBikeModel(cfg.DefaultBikeModel),
		WithFormChoices(cfg.BikeModels, cfg.Symptoms),
		WithLogger(log),
	}, nil
}

func memoryConfig() *config.Config {
	cfg := config.New()
	cfg.StoreBackend = config.BackendMemory
	return cfg
}
