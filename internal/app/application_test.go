package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textcleaner/internal/algorithms"
	"textcleaner/internal/config"
	"textcleaner/internal/models"
	"textcleaner/internal/testutil"
)

func newTestConfig(t *testing.T, toolBody string) *config.Config {
	t.Helper()
	root := t.TempDir()
	toolDir := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(toolDir, 0o755))
	testutil.WriteTool(t, toolDir, "imgclean", toolBody)

	return &config.Config{
		Tool: config.ToolConfig{
			Name:          "imgclean",
			Dir:           toolDir,
			AlgorithmFlag: "-a",
		},
		Workspace: config.WorkspaceConfig{
			Dir:          filepath.Join(root, "work"),
			SweepOnStart: true,
			SweepMaxAge:  time.Hour,
		},
		Workers:   config.WorkersConfig{MaxConcurrent: 2},
		Algorithm: config.AlgorithmConfig{Default: "sauvola"},
	}
}

func TestNewApplicationCleansEndToEnd(t *testing.T) {
	cfg := newTestConfig(t, testutil.CopyTool)
	a, err := NewApplication(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	defer a.Shutdown()

	result, err := a.Cleaner.Clean(a.Context(), models.CleanRequest{Data: []byte("scan"), Extension: "png"})
	require.NoError(t, err)
	assert.Equal(t, []byte("scan"), result.Data)
	require.NoError(t, result.Release())
}

func TestNewApplicationAppliesDefaultAlgorithm(t *testing.T) {
	cfg := newTestConfig(t, testutil.EchoArgsTool)
	a, err := NewApplication(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	defer a.Shutdown()

	alg, err := a.ResolveAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, algorithms.Sauvola, alg)

	alg, err = a.ResolveAlgorithm("Niblack")
	require.NoError(t, err)
	assert.Equal(t, algorithms.Niblack, alg)

	_, err = a.ResolveAlgorithm("otsu")
	assert.Error(t, err)
}

func TestNewApplicationSweepsStaleArtifacts(t *testing.T) {
	cfg := newTestConfig(t, testutil.CopyTool)
	require.NoError(t, os.MkdirAll(cfg.Workspace.Dir, 0o700))

	stale := filepath.Join(cfg.Workspace.Dir, "textcleaner-stale.png")
	fresh := filepath.Join(cfg.Workspace.Dir, "textcleaner-fresh.png")
	require.NoError(t, os.WriteFile(stale, nil, 0o600))
	require.NoError(t, os.WriteFile(fresh, nil, 0o600))
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	a, err := NewApplication(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	defer a.Shutdown()

	_, err = os.Stat(stale)
	assert.ErrorIs(t, err, os.ErrNotExist)
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestShutdownReclaimsOutstandingResults(t *testing.T) {
	cfg := newTestConfig(t, testutil.CopyTool)
	a, err := NewApplication(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)

	result, err := a.Cleaner.Clean(a.Context(), models.CleanRequest{Data: []byte("scan"), Extension: "png"})
	require.NoError(t, err)

	a.Shutdown()
	a.Shutdown()

	assert.True(t, result.Released())
	_, err = os.Stat(result.OutputPath)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, a.Context().Err(), context.Canceled)
}

func TestNewApplicationRejectsUnknownDefault(t *testing.T) {
	cfg := newTestConfig(t, testutil.CopyTool)
	cfg.Algorithm.Default = "otsu"

	_, err := NewApplication(context.Background(), cfg, nil, Options{})
	assert.Error(t, err)
}
