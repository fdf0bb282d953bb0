package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/bikelog/internal/domain/category"
	"github.com/okian/bikelog/internal/domain/faults"
)

// envPrefix namespaces every environment variable read by Load.
const envPrefix = "BIKELOG_"

// Load builds a Config by layering defaults, optional file, env vars and secrets.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BIKELOG_CONFIG is set
//  3. env (prefix BIKELOG_)
//  4. secrets file (TOML) if secrets_file / BIKELOG_SECRETS_FILE is set; only
//     fills credentials that are still empty
func Load(ctx context.Context) (*Config, error) {
	base := New()
	k := koanf.New(".")

	if path := os.Getenv(envPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Map env keys like BIKELOG_STORE_BACKEND -> store_backend (flat keys).
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	// Lists are decoded into empty slices so a shorter list in the file
	// replaces the defaults instead of overwriting a prefix of them.
	cfg := *base
	cfg.CategoryPresets, cfg.BikeModels, cfg.Symptoms = nil, nil, nil
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if len(cfg.CategoryPresets) == 0 {
		cfg.CategoryPresets = base.CategoryPresets
	}
	if len(cfg.BikeModels) == 0 {
		cfg.BikeModels = base.BikeModels
	}
	if len(cfg.Symptoms) == 0 {
		cfg.Symptoms = base.Symptoms
	}

	if cfg.SecretsFile != "" {
		sec, err := LoadSecrets(ctx, cfg.SecretsFile)
		if err != nil {
			return nil, err
		}
		sec.Apply(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that must be right before the server starts.
// Missing search credentials are not an error here: search reports a
// configuration error when it is first used.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	switch c.StoreBackend {
	case BackendXLSX:
		if c.XLSXPath == "" {
			errs = append(errs, errors.New("xlsx_path must not be empty"))
		}
	case BackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite_path must not be empty"))
		}
	case BackendSheets, BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store_backend %q", c.StoreBackend))
	}
	mode, err := category.ParseMode(c.CategoryMode)
	if err != nil {
		errs = append(errs, err)
	}
	if mode == category.ModeSentinel && strings.TrimSpace(c.CategorySentinel) == "" {
		errs = append(errs, errors.New("category_sentinel must not be empty in sentinel mode"))
	}
	if c.SearchTimeoutMS <= 0 {
		errs = append(errs, errors.New("search_timeout_ms must be positive"))
	}
	if len(errs) > 0 {
		return faults.Wrap("config.validate", faults.ErrConfiguration, fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...)))
	}
	return nil
}
