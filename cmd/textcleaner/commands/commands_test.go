package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textcleaner/internal/testutil"
	"textcleaner/internal/workspace"
)

type env struct {
	root      string
	workspace string
}

// setup writes a config file pointing at a fake tool and resets flag state.
func setup(t *testing.T, toolBody string) env {
	t.Helper()
	root := t.TempDir()
	toolDir := filepath.Join(root, "bin")
	require.NoError(t, os.MkdirAll(toolDir, 0o755))
	testutil.WriteTool(t, toolDir, "imgclean", toolBody)

	workspace := filepath.Join(root, "work")
	configFile := filepath.Join(root, "textcleaner.toml")
	content := fmt.Sprintf(`
[tool]
dir = %q

[workspace]
dir = %q

[algorithm]
default = "sauvola"

[log]
level = "off"
`, toolDir, workspace)
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))

	Globals.ConfigFile = configFile
	Globals.LogLevel = ""
	Globals.JSONLogs = false
	cleanOutputFlag, cleanAlgorithmFlag, cleanVerifyFlag = "", "", false
	batchOutDirFlag, batchAlgorithmFlag, batchVerifyFlag = "", "", false
	sweepMaxAgeFlag = 0
	t.Cleanup(func() { Globals.ConfigFile = "" })

	return env{root: root, workspace: workspace}
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCleanWritesDefaultOutput(t *testing.T) {
	e := setup(t, testutil.CopyTool)
	input := filepath.Join(e.root, "page.png")
	require.NoError(t, os.WriteFile(input, []byte("scan"), 0o644))

	out, err := execute(t, CleanCmd, input)
	require.NoError(t, err)

	want := filepath.Join(e.root, "page-cleaned.png")
	assert.Equal(t, want+"\n", out)
	got, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, []byte("scan"), got)
}

func TestCleanUsesConfiguredDefaultAlgorithm(t *testing.T) {
	e := setup(t, testutil.EchoArgsTool)
	input := filepath.Join(e.root, "page.png")
	output := filepath.Join(e.root, "out.png")
	require.NoError(t, os.WriteFile(input, []byte("scan"), 0o644))

	_, err := execute(t, CleanCmd, input, "-o", output)
	require.NoError(t, err)

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "sauvola", string(got))
}

func TestCleanReportsToolFailure(t *testing.T) {
	e := setup(t, testutil.BadHeaderTool)
	input := filepath.Join(e.root, "page.png")
	require.NoError(t, os.WriteFile(input, []byte("scan"), 0o644))

	_, err := execute(t, CleanCmd, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad header")
}

func TestBatchReportsPerFileResults(t *testing.T) {
	e := setup(t, testutil.CopyTool)
	good := filepath.Join(e.root, "a.png")
	bad := filepath.Join(e.root, "notes.txt")
	require.NoError(t, os.WriteFile(good, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("b"), 0o644))
	outDir := filepath.Join(e.root, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	out, err := execute(t, BatchCmd, good, bad, "--out-dir", outDir)
	assert.EqualError(t, err, "1 of 2 files failed")
	assert.Contains(t, out, "FAIL "+bad)
	assert.FileExists(t, filepath.Join(outDir, "a-cleaned.png"))
}

func TestSweepRemovesStaleArtifacts(t *testing.T) {
	e := setup(t, testutil.CopyTool)
	require.NoError(t, os.MkdirAll(e.workspace, 0o700))
	stale := filepath.Join(e.workspace, "textcleaner-old.png")
	require.NoError(t, os.WriteFile(stale, nil, 0o600))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	out, err := execute(t, SweepCmd, "--max-age", "1m")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1 artifact(s)")
	assert.NoFileExists(t, stale)
}

func TestSweepRefusesZeroMaxAge(t *testing.T) {
	e := setup(t, testutil.CopyTool)
	require.NoError(t, os.MkdirAll(e.workspace, 0o700))
	inUse := filepath.Join(e.workspace, "textcleaner-in-use.png")
	require.NoError(t, os.WriteFile(inUse, nil, 0o600))

	_, err := execute(t, SweepCmd, "--max-age", "0s")
	assert.ErrorIs(t, err, workspace.ErrSweepAgeTooShort)
	assert.FileExists(t, inUse)
}

func TestInspectPrintsImageInfo(t *testing.T) {
	e := setup(t, testutil.CopyTool)
	path := filepath.Join(e.root, "dot.ppm")
	ppm := append([]byte("P6\n2 1\n255\n"), 255, 0, 0, 0, 255, 0)
	require.NoError(t, os.WriteFile(path, ppm, 0o644))

	out, err := execute(t, InspectCmd, path)
	require.NoError(t, err)
	assert.Contains(t, out, "ppm 2x1")
}

func TestAlgorithmsMarksDefault(t *testing.T) {
	setup(t, testutil.CopyTool)

	out, err := execute(t, AlgorithmsCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "* sauvola")
	assert.Contains(t, out, "  bradley-roth")
}
