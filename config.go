package papertrade

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the account settings loaded from a TOML file. A missing file
// yields the defaults: a local-only account with no remote store.
type Config struct {
	Account           string  `toml:"account"`
	Currency          string  `toml:"currency"`
	SecondaryCurrency string  `toml:"secondary_currency"`
	SecondaryRate     float64 `toml:"secondary_rate"`
	SeedCash          float64 `toml:"seed_cash"`
	DataDir           string  `toml:"data_dir"`
	DebounceSeconds   int     `toml:"debounce_seconds"`

	Surreal SurrealConfig `toml:"surreal"`
}

// SurrealConfig configures the optional remote store. An empty endpoint
// means the account operates on the local cache alone.
type SurrealConfig struct {
	Endpoint  string `toml:"endpoint"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// DefaultConfig returns the local-only defaults.
func DefaultConfig() *Config {
	return &Config{
		Account:         "default",
		Currency:        "USD",
		SecondaryRate:   1,
		SeedCash:        1_000_000,
		DataDir:         ".papertrade",
		DebounceSeconds: 3,
	}
}

// LoadConfig reads the TOML file at path, applies defaults for absent
// fields, and then environment overrides: PAPERTRADE_DATA_DIR and
// PAPERTRADE_SURREAL_ENDPOINT.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("could not read config %q: %w", path, err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("could not parse config %q: %w", path, err)
		}
	}

	if v := os.Getenv("PAPERTRADE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PAPERTRADE_SURREAL_ENDPOINT"); v != "" {
		cfg.Surreal.Endpoint = v
	}

	if cfg.Account == "" {
		return nil, errors.New("config: account id cannot be empty")
	}
	if cfg.SecondaryRate <= 0 {
		cfg.SecondaryRate = 1
	}
	if cfg.DebounceSeconds <= 0 {
		cfg.DebounceSeconds = 3
	}
	return cfg, nil
}

// Debounce returns the remote-save coalescing window.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceSeconds) * time.Second
}

// Seed returns the initial cash balance for a fresh account.
func (c *Config) Seed() Money {
	return M(c.SeedCash, c.Currency)
}
