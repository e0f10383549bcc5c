package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App struct {
		Addr string `toml:"addr"`
	} `toml:"app"`

	Store struct {
		Driver string `toml:"driver"` // "postgres" or "sqlite"
		DSN    string `toml:"dsn"`    // postgres only
		Path   string `toml:"path"`   // sqlite only
	} `toml:"store"`

	Redis struct {
		Enabled    bool   `toml:"enabled"`
		Addr       string `toml:"addr"`
		Password   string `toml:"password"`
		DB         int    `toml:"db"`
		Prefix     string `toml:"prefix"`
		TTLSeconds int    `toml:"ttl_seconds"`
	} `toml:"redis"`

	Provider struct {
		BaseURL    string `toml:"base_url"`
		TimeoutSec int    `toml:"timeout_sec"`
		Range      string `toml:"range"` // chart lookback, e.g. "1y"
	} `toml:"provider"`

	Seed struct {
		Symbols []string `toml:"symbols"`
	} `toml:"seed"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.App.Addr) == "" {
		cfg.App.Addr = ":8080"
	}
	if strings.TrimSpace(cfg.Store.Driver) == "" {
		cfg.Store.Driver = "sqlite"
	}
	if strings.TrimSpace(cfg.Store.Path) == "" {
		cfg.Store.Path = "data/stockdash.db"
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if strings.TrimSpace(cfg.Redis.Prefix) == "" {
		cfg.Redis.Prefix = "stock"
	}
	if cfg.Redis.TTLSeconds <= 0 {
		cfg.Redis.TTLSeconds = 43200 // 12h
	}
	if cfg.Provider.TimeoutSec <= 0 {
		cfg.Provider.TimeoutSec = 30
	}
	if strings.TrimSpace(cfg.Provider.Range) == "" {
		cfg.Provider.Range = "1y"
	}
}

func validate(cfg *Config) error {
	cfg.Seed.Symbols = normalizeSymbols(cfg.Seed.Symbols)

	switch cfg.Store.Driver {
	case "postgres":
		if strings.TrimSpace(cfg.Store.DSN) == "" {
			return errors.New("store.dsn empty but driver is postgres")
		}
	case "sqlite":
		if strings.TrimSpace(cfg.Store.Path) == "" {
			return errors.New("store.path empty but driver is sqlite")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", cfg.Store.Driver)
	}
	return nil
}

func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]struct{}{}
	for _, s := range in {
		u := strings.ToUpper(strings.TrimSpace(s))
		if u == "" {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}
