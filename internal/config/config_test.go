package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/numguess/internal/game"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, game.DefaultConfig(), cfg.Game())
	assert.Equal(t, BackendFile, cfg.HighScoreBackend)
	assert.Equal(t, "highscore.txt", cfg.HighScoreFile)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, 3*time.Hour, cfg.SessionTTL)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("NUMGUESS_RANGE_LOW", "10")
	t.Setenv("NUMGUESS_RANGE_HIGH", "20")
	t.Setenv("NUMGUESS_MAX_ATTEMPTS", "4")
	t.Setenv("HIGHSCORE_BACKEND", "sqlite")
	t.Setenv("HIGHSCORE_DSN", "/tmp/x.db")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, game.Config{Low: 10, High: 20, MaxAttempts: 4}, cfg.Game())
	assert.Equal(t, BackendSQLite, cfg.HighScoreBackend)
	assert.Equal(t, "/tmp/x.db", cfg.HighScoreDSN)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		is   error
	}{
		{name: "not an int", env: map[string]string{"NUMGUESS_MAX_ATTEMPTS": "ten"}},
		{name: "inverted range", env: map[string]string{"NUMGUESS_RANGE_LOW": "50", "NUMGUESS_RANGE_HIGH": "10"}, is: game.ErrInvalidConfig},
		{name: "zero attempts", env: map[string]string{"NUMGUESS_MAX_ATTEMPTS": "0"}, is: game.ErrInvalidConfig},
		{name: "unknown backend", env: map[string]string{"HIGHSCORE_BACKEND": "redis"}, is: ErrUnknownBackend},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Parse()
			require.Error(t, err)
			assert.Nil(t, cfg)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}
