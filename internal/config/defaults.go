package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5001
	}
	if cfg.Server.SessionCookie == "" {
		cfg.Server.SessionCookie = "token"
	}
	if cfg.Server.SessionTTL == 0 {
		cfg.Server.SessionTTL = 7 * 24 * time.Hour
	}
	if cfg.Server.AuthRateLimit <= 0 {
		cfg.Server.AuthRateLimit = 5
	}
	if cfg.Server.AuthBurst <= 0 {
		cfg.Server.AuthBurst = 10
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/dishhub/data/db/recipes.db"
	}
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = "http://localhost:5001"
	}
	if cfg.Client.Timeout == 0 {
		cfg.Client.Timeout = 10 * time.Second
	}
	if cfg.Client.SessionCookie == "" {
		cfg.Client.SessionCookie = cfg.Server.SessionCookie
	}
	if cfg.Client.SessionFile == "" {
		cfg.Client.SessionFile = ".config/dishhub/session.json"
	}
	if cfg.Browse.PageSize <= 0 {
		cfg.Browse.PageSize = 3
	}
	if cfg.Browse.SuggestionLimit <= 0 {
		cfg.Browse.SuggestionLimit = 8
	}
	if cfg.Browse.SuggestMode == "" {
		cfg.Browse.SuggestMode = "vocabulary"
	}
	if cfg.Seed.Extensions == nil {
		cfg.Seed.Extensions = []string{".yaml", ".yml", ".json"}
	}
	// Recursive defaults to true when unset (nil).
	if len(cfg.Seed.Directories) > 0 && cfg.Seed.Recursive == nil {
		t := true
		cfg.Seed.Recursive = &t
	}
}
