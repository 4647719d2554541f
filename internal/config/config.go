// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// MinGridSize is the smallest dungeon that has distinct entrance and boss rooms.
const MinGridSize = 2

// Config holds every operator-tunable setting.
type Config struct {
	Handle   string `env:"PROBLEMCRAWL_HANDLE"`
	GridSize int    `env:"PROBLEMCRAWL_GRID_SIZE" envDefault:"5"`
	TestMode bool   `env:"PROBLEMCRAWL_TEST_MODE" envDefault:"false"`
	// Seed for dungeon layout and problem sampling. 0 picks a random seed.
	Seed int64 `env:"PROBLEMCRAWL_SEED" envDefault:"0"`

	APIBaseURL     string        `env:"PROBLEMCRAWL_API_URL"         envDefault:"https://solved.ac/api/v3"`
	RequestTimeout time.Duration `env:"PROBLEMCRAWL_REQUEST_TIMEOUT" envDefault:"5s"`
	SearchAttempts uint          `env:"PROBLEMCRAWL_SEARCH_ATTEMPTS" envDefault:"5"`
	RetryDelay     time.Duration `env:"PROBLEMCRAWL_RETRY_DELAY"     envDefault:"0s"`

	LogLevel  string `env:"PROBLEMCRAWL_LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"PROBLEMCRAWL_LOG_FORMAT" envDefault:"text"`
	LogFile   string `env:"PROBLEMCRAWL_LOG_FILE"   envDefault:"problemcrawl.log"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.GridSize < MinGridSize {
		errs = append(errs, fmt.Errorf("grid size %d is below minimum %d", c.GridSize, MinGridSize))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.SearchAttempts < 1 {
		errs = append(errs, errors.New("search attempts must be at least 1"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
