package config

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Secrets holds credentials read from the secrets file.
type Secrets struct {
	// ServiceAccountJSON is the [gcp_service_account] table re-encoded as JSON.
	ServiceAccountJSON string
	// SearchEndpoint and SearchAPIKey come from the [notebooklm] table.
	SearchEndpoint string
	SearchAPIKey   string
}

// LoadSecrets reads a TOML secrets file shaped like:
//
//	[gcp_service_account]
//	type = "service_account"
//	client_email = "..."
//	private_key = "..."
//
//	[notebooklm]
//	api_key = "..."
//	endpoint = "https://..."
func LoadSecrets(_ context.Context, path string) (*Secrets, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadSecrets, path, err)
	}

	s := &Secrets{
		SearchEndpoint: k.String("notebooklm.endpoint"),
		SearchAPIKey:   k.String("notebooklm.api_key"),
	}
	if k.Exists("gcp_service_account") {
		raw, err := json.Marshal(k.Cut("gcp_service_account").Raw())
		if err != nil {
			return nil, fmt.Errorf("%w: gcp_service_account: %w", ErrLoadSecrets, err)
		}
		s.ServiceAccountJSON = string(raw)
	}
	return s, nil
}

// Apply copies secrets into cfg without overriding values set elsewhere.
func (s *Secrets) Apply(cfg *Config) {
	if cfg.SheetsCredentialsJSON == "" && cfg.SheetsCredentialsFile == "" {
		cfg.SheetsCredentialsJSON = s.ServiceAccountJSON
	}
	if cfg.SearchEndpoint == "" {
		cfg.SearchEndpoint = s.SearchEndpoint
	}
	if cfg.SearchAPIKey == "" {
		cfg.SearchAPIKey = s.SearchAPIKey
	}
}
