package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "imgclean", cfg.Tool.Name)
	assert.Equal(t, "-a", cfg.Tool.AlgorithmFlag)
	assert.Zero(t, cfg.Tool.Timeout)
	assert.Equal(t, filepath.Join(os.TempDir(), "textcleaner"), cfg.Workspace.Dir)
	assert.True(t, cfg.Workspace.SweepOnStart)
	assert.Equal(t, 24*time.Hour, cfg.Workspace.SweepMaxAge)
	assert.Positive(t, cfg.Workers.MaxConcurrent)
	assert.Equal(t, "bradley-roth", cfg.Algorithm.Default)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "textcleaner.toml")
	content := `
[tool]
name = "imgclean-dev"
timeout = "30s"

[workspace]
dir = "/var/tmp/tc"

[workers]
max_concurrent = 2

[algorithm]
default = "sauvola"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "imgclean-dev", cfg.Tool.Name)
	assert.Equal(t, 30*time.Second, cfg.Tool.Timeout)
	assert.Equal(t, "/var/tmp/tc", cfg.Workspace.Dir)
	assert.Equal(t, 2, cfg.Workers.MaxConcurrent)
	assert.Equal(t, "sauvola", cfg.Algorithm.Default)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TEXTCLEANER_TOOL_NAME", "from-env")
	t.Setenv("TEXTCLEANER_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Tool.Name)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Tool:      ToolConfig{Name: "imgclean"},
			Workspace: WorkspaceConfig{Dir: "/tmp/x", SweepMaxAge: time.Hour},
			Workers:   WorkersConfig{MaxConcurrent: 1},
		}
	}

	cfg := base()
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Tool.Timeout = -time.Second
	assert.ErrorContains(t, cfg.Validate(), "tool.timeout")

	cfg = base()
	cfg.Workers.MaxConcurrent = 0
	assert.ErrorContains(t, cfg.Validate(), "workers.max_concurrent")

	cfg = base()
	cfg.Algorithm.Default = "otsu"
	assert.ErrorContains(t, cfg.Validate(), "algorithm.default")

	cfg = base()
	cfg.Workspace.SweepMaxAge = 0
	assert.ErrorContains(t, cfg.Validate(), "workspace.sweep_max_age")

	cfg = base()
	cfg.Tool.Name = " "
	assert.ErrorContains(t, cfg.Validate(), "tool.name")
}
