package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textcleaner/internal/logger"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(filepath.Join(t.TempDir(), "scratch"), logger.Nop())
	require.NoError(t, err)
	return m
}

func TestNewCreatesDirectory(t *testing.T) {
	m := newManager(t)

	info, err := os.Stat(m.Dir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewRejectsEmptyDir(t *testing.T) {
	_, err := New("", nil)
	assert.Error(t, err)
}

func TestCreateInputArtifact(t *testing.T) {
	m := newManager(t)

	path, err := m.CreateInputArtifact([]byte("pixels"), "png")
	require.NoError(t, err)

	assert.Equal(t, m.Dir(), filepath.Dir(path))
	assert.True(t, strings.HasPrefix(filepath.Base(path), ArtifactPrefix))
	assert.Equal(t, ".png", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))
}

func TestCreateInputArtifactFailureLeavesNothing(t *testing.T) {
	m := newManager(t)
	require.NoError(t, os.RemoveAll(m.Dir()))

	_, err := m.CreateInputArtifact([]byte("pixels"), "png")
	require.Error(t, err)

	_, statErr := os.Stat(m.Dir())
	assert.True(t, os.IsNotExist(statErr))
}

func TestAllocateOutputPathIsUniqueAndNotCreated(t *testing.T) {
	m := newManager(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		p, err := m.AllocateOutputPath(".jpg")
		require.NoError(t, err)
		assert.False(t, seen[p], "duplicate path %s", p)
		seen[p] = true

		assert.Equal(t, m.Dir(), filepath.Dir(p))
		assert.Equal(t, ".jpg", filepath.Ext(p))
		_, err = os.Stat(p)
		assert.True(t, os.IsNotExist(err))
	}
}

func TestArtifactsStayInsideWorkspace(t *testing.T) {
	m := newManager(t)

	for _, ext := range []string{"png/../../x", "../x", "..", "a/b", `a\b`, "png\x00"} {
		_, err := m.CreateInputArtifact([]byte("x"), ext)
		assert.ErrorIs(t, err, ErrInvalidExtension, ext)

		_, err = m.AllocateOutputPath(ext)
		assert.ErrorIs(t, err, ErrInvalidExtension, ext)
	}

	entries, err := os.ReadDir(filepath.Dir(m.Dir()))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the scratch directory itself")

	p, err := m.AllocateOutputPath("")
	require.NoError(t, err)
	assert.Equal(t, m.Dir(), filepath.Dir(p))
}

func TestDeleteArtifactIsBestEffort(t *testing.T) {
	m := newManager(t)

	path, err := m.CreateInputArtifact([]byte("x"), "ppm")
	require.NoError(t, err)

	m.DeleteArtifact(path)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Second delete and empty path are silent no-ops.
	m.DeleteArtifact(path)
	m.DeleteArtifact("")
}

func TestSweepRemovesOnlyStaleArtifacts(t *testing.T) {
	m := newManager(t)

	stale, err := m.CreateInputArtifact([]byte("old"), "png")
	require.NoError(t, err)
	fresh, err := m.CreateInputArtifact([]byte("new"), "png")
	require.NoError(t, err)
	foreign := filepath.Join(m.Dir(), "keep-me.png")
	require.NoError(t, os.WriteFile(foreign, []byte("x"), 0o600))

	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(foreign, old, old))

	removed, err := m.Sweep(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, fresh)
	assert.FileExists(t, foreign)
}

func TestSweepRejectsShortMaxAge(t *testing.T) {
	m := newManager(t)
	path, err := m.CreateInputArtifact([]byte("in use"), "png")
	require.NoError(t, err)
	old := time.Now().Add(-30 * time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	for _, age := range []time.Duration{0, time.Second, MinSweepAge - 1} {
		removed, err := m.Sweep(age)
		assert.ErrorIs(t, err, ErrSweepAgeTooShort, age)
		assert.Zero(t, removed)
	}
	assert.FileExists(t, path)
}

func TestSweepMissingDirectory(t *testing.T) {
	m := newManager(t)
	require.NoError(t, os.RemoveAll(m.Dir()))

	_, err := m.Sweep(time.Hour)
	assert.Error(t, err)
}
