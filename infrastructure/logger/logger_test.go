package logger_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ksnll/mithrilforge/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_WritesToConfiguredPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	log, err := logger.New(logger.Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.With(logger.String("service", "test")).Info("hello", logger.Int("n", 1))
	_ = log.Sync()

	assert.FileExists(t, path)
}

func TestNew_ConsoleFormat(t *testing.T) {
	log, err := logger.New(logger.Config{Format: logger.FormatConsole, OutputPaths: []string{filepath.Join(t.TempDir(), "c.log")}})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestFromContext(t *testing.T) {
	fallback := logger.NewNop()

	t.Run("returns stored logger", func(t *testing.T) {
		stored, err := logger.New(logger.Config{OutputPaths: []string{filepath.Join(t.TempDir(), "s.log")}})
		require.NoError(t, err)

		ctx := logger.WithContext(context.Background(), stored)
		assert.Same(t, stored, logger.FromContext(ctx, fallback))
	})

	t.Run("falls back when empty", func(t *testing.T) {
		assert.Equal(t, fallback, logger.FromContext(context.Background(), fallback))
	})

	t.Run("nil fallback yields nop", func(t *testing.T) {
		got := logger.FromContext(context.Background(), nil)
		require.NotNil(t, got)
		got.Error("discarded")
	})
}
