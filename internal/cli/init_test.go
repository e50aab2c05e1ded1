package cli

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	logger := SetupLogger("debug")
	require.NotNil(t, logger)
	assert.Equal(t, "app", logger.Component())
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
}

func TestInitSQLite(t *testing.T) {
	repo, err := InitSQLite(slog.Default(), filepath.Join(t.TempDir(), "db", "test.db"))
	require.NoError(t, err)
	assert.NoError(t, repo.Close())
}

func TestInitSQLite_ReturnsError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	repo, err := InitSQLite(slog.Default(), filepath.Join(blocker, "test.db"))
	assert.Error(t, err)
	assert.Nil(t, repo)
}

func TestInterruptContext(t *testing.T) {
	ctx, stop := InterruptContext()
	assert.NoError(t, ctx.Err())
	stop()
	<-ctx.Done()
}
