package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// The database URL has no default, so it must come from the environment.
	t.Setenv("KOTOBA_DATABASE_URL", "postgres://localhost:5432/kotoba_test")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "postgres://localhost:5432/kotoba_test", cfg.Database.URL)

	assert.InDelta(t, 1.3, cfg.Scheduler.MinEasinessFactor, 1e-9)
	assert.InDelta(t, 3.0, cfg.Scheduler.MaxEasinessFactor, 1e-9)
	assert.InDelta(t, 2.5, cfg.Scheduler.InitialEasinessFactor, 1e-9)
	assert.Equal(t, 7, cfg.Scheduler.ReviewThreshold)
	assert.Equal(t, 21, cfg.Scheduler.MasteredThreshold)
	assert.Equal(t, 50, cfg.Scheduler.MaxDuePerSession)
	assert.Equal(t, 10, cfg.Scheduler.MaxNewPerSession)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("KOTOBA_DATABASE_URL", "postgres://localhost:5432/kotoba_test")
	t.Setenv("KOTOBA_SERVER_PORT", "9090")
	t.Setenv("KOTOBA_SERVER_LOG_LEVEL", "debug")
	t.Setenv("KOTOBA_SCHEDULER_MAX_NEW_PER_SESSION", "20")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 20, cfg.Scheduler.MaxNewPerSession)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("KOTOBA_DATABASE_URL", "")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Database.URL")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"port out of range", "KOTOBA_SERVER_PORT", "70000"},
		{"unknown log level", "KOTOBA_SERVER_LOG_LEVEL", "verbose"},
		{"easiness floor too low", "KOTOBA_SCHEDULER_MIN_EASINESS_FACTOR", "0.5"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("KOTOBA_DATABASE_URL", "postgres://localhost:5432/kotoba_test")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
