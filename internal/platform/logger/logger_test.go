package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/kotoba-app/kotoba-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogLevels(t *testing.T) {
	testCases := []struct {
		configured string
	}{
		{"debug"},
		{"info"},
		{"warn"},
		{"error"},
		{"WARN"},    // case-insensitive
		{"verbose"}, // invalid, falls back to info
		{""},        // empty, falls back to info
	}

	for _, tc := range testCases {
		t.Run("level_"+tc.configured, func(t *testing.T) {
			logger, err := Setup(config.ServerConfig{LogLevel: tc.configured})

			require.NoError(t, err)
			require.NotNil(t, logger)
			assert.Same(t, logger, slog.Default())
		})
	}
}

func TestFromContext(t *testing.T) {
	ctx := context.Background()

	// Without a stored logger the default is returned.
	assert.Same(t, slog.Default(), FromContext(ctx))

	stored := slog.Default().With(slog.String("trace_id", "abc"))
	ctx = WithLogger(ctx, stored)

	assert.Same(t, stored, FromContext(ctx))
}

func TestFromContextOrDefault(t *testing.T) {
	fallback := slog.Default().With(slog.String("component", "test"))

	// Empty context falls through to the component fallback.
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))

	// Nil fallback falls through to the process default.
	assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))

	// A stored logger wins over the fallback.
	stored := slog.Default().With(slog.String("trace_id", "xyz"))
	ctx := WithLogger(context.Background(), stored)
	assert.Same(t, stored, FromContextOrDefault(ctx, fallback))
}
