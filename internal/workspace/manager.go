// Package workspace owns the scratch directory that holds the files handed to
// and produced by the external tool.
package workspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"textcleaner/internal/logger"
)

// ArtifactPrefix marks every file the manager creates or reserves.
// Sweep only touches files carrying it.
const ArtifactPrefix = "textcleaner-"

const component = "Workspace"

// MinSweepAge is the youngest artifact age Sweep accepts. Younger artifacts
// may still be in use by another running process.
const MinSweepAge = time.Minute

// ErrSweepAgeTooShort is returned by Sweep for ages below MinSweepAge.
var ErrSweepAgeTooShort = errors.New("sweep age below minimum")

// ErrInvalidExtension is returned for extensions that would place an artifact
// outside the scratch directory.
var ErrInvalidExtension = errors.New("invalid artifact extension")

type Manager struct {
	dir    string
	logger logger.Logger
}

// New creates the scratch directory if needed.
func New(dir string, log logger.Logger) (*Manager, error) {
	if dir == "" {
		return nil, errors.New("workspace directory must not be empty")
	}
	if log == nil {
		log = logger.Nop()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve workspace directory %s", dir)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create workspace directory %s", abs)
	}
	return &Manager{dir: abs, logger: log}, nil
}

func (m *Manager) Dir() string {
	return m.dir
}

// CreateInputArtifact writes data to a new uniquely named file ending in ext.
// On failure nothing is left on disk.
func (m *Manager) CreateInputArtifact(data []byte, ext string) (string, error) {
	path, err := m.newPath(ext)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", errors.Wrapf(err, "create input artifact %s", path)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		m.discard(path)
		return "", errors.Wrapf(err, "write input artifact %s", path)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		m.discard(path)
		return "", errors.Wrapf(err, "sync input artifact %s", path)
	}
	if err := f.Close(); err != nil {
		m.discard(path)
		return "", errors.Wrapf(err, "close input artifact %s", path)
	}

	m.logger.Debug(component, "input artifact created", map[string]interface{}{
		"path":  path,
		"bytes": len(data),
	})
	return path, nil
}

// AllocateOutputPath reserves a unique path next to the input artifacts.
// The file itself is not created.
func (m *Manager) AllocateOutputPath(ext string) (string, error) {
	return m.newPath(ext)
}

// DeleteArtifact removes path. Failures are logged and never returned.
func (m *Manager) DeleteArtifact(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Warning(component, "failed to delete artifact", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return
	}
	m.logger.Debug(component, "artifact deleted", map[string]interface{}{"path": path})
}

// Sweep deletes artifacts last modified more than maxAge ago and returns how
// many were removed. maxAge must be at least MinSweepAge.
func (m *Manager) Sweep(maxAge time.Duration) (int, error) {
	if maxAge < MinSweepAge {
		return 0, errors.WithHintf(
			errors.Wrapf(ErrSweepAgeTooShort, "%s", maxAge),
			"use a max age of at least %s; younger artifacts may belong to a running textcleaner", MinSweepAge,
		)
	}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, errors.Wrapf(err, "read workspace directory %s", m.dir)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), ArtifactPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			m.logger.Warning(component, "failed to sweep artifact", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
			continue
		}
		removed++
	}

	m.logger.Info(component, "sweep completed", map[string]interface{}{
		"dir":     m.dir,
		"removed": removed,
		"max_age": maxAge.String(),
	})
	return removed, nil
}

func (m *Manager) newPath(ext string) (string, error) {
	ext = strings.TrimPrefix(ext, ".")
	if err := validateExtension(ext); err != nil {
		return "", err
	}

	name := ArtifactPrefix + uuid.NewString()
	if ext != "" {
		name += "." + ext
	}
	return filepath.Join(m.dir, name), nil
}

// validateExtension keeps every artifact a direct child of the scratch
// directory.
func validateExtension(ext string) error {
	if ext == "" {
		return nil
	}
	if strings.ContainsAny(ext, "/\\\x00") || strings.Contains(ext, "..") || filepath.Base(ext) != ext {
		return errors.WithHint(
			errors.Wrapf(ErrInvalidExtension, "%q", ext),
			"extensions must not contain path separators or \"..\"",
		)
	}
	return nil
}

// discard removes a partially written file.
func (m *Manager) discard(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		m.logger.Warning(component, "failed to remove partial artifact", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}
