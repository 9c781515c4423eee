// internal/config/config.go
//
// Process configuration.
// Responsibilities:
//   - Load a .env file when present (development convenience).
//   - Parse environment variables into Config with defaults.
//   - Validate the game parameters and storage selection up front so bad
//     configuration fails at startup, not mid-game.

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/robalobadob/numguess/internal/game"
)

// Storage backends for the high score record.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned for an unsupported HIGHSCORE_BACKEND.
var ErrUnknownBackend = errors.New("unknown high score backend")

// Config is the full process configuration.
type Config struct {
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
	Port         string `env:"PORT" envDefault:"5175"`
	ClientOrigin string `env:"CLIENT_ORIGIN" envDefault:"http://localhost:5173"`

	RangeLow    int    `env:"NUMGUESS_RANGE_LOW" envDefault:"1"`
	RangeHigh   int    `env:"NUMGUESS_RANGE_HIGH" envDefault:"100"`
	MaxAttempts int    `env:"NUMGUESS_MAX_ATTEMPTS" envDefault:"10"`
	DailySalt   string `env:"DAILY_SALT"`

	HighScoreBackend string `env:"HIGHSCORE_BACKEND" envDefault:"file"`
	HighScoreFile    string `env:"HIGHSCORE_FILE" envDefault:"highscore.txt"`
	HighScoreDSN     string `env:"HIGHSCORE_DSN" envDefault:"./data/numguess.db"`

	SessionSecret  string        `env:"SESSION_SECRET" envDefault:"dev_secret_change_me"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"3h"`
	CookieSecure   bool          `env:"COOKIE_SECURE" envDefault:"false"`
	RateLimitRPS   int           `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
}

// Load reads .env (if any) and the environment, then validates.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads the environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Game returns the session parameters.
func (c *Config) Game() game.Config {
	return game.Config{Low: c.RangeLow, High: c.RangeHigh, MaxAttempts: c.MaxAttempts}
}

// Validate checks the game parameters and backend selection.
func (c *Config) Validate() error {
	if err := c.Game().Validate(); err != nil {
		return err
	}
	switch c.HighScoreBackend {
	case BackendFile:
		if c.HighScoreFile == "" {
			return fmt.Errorf("HIGHSCORE_FILE must be set for the %s backend", BackendFile)
		}
	case BackendSQLite:
		if c.HighScoreDSN == "" {
			return fmt.Errorf("HIGHSCORE_DSN must be set for the %s backend", BackendSQLite)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.HighScoreBackend)
	}
	return nil
}
