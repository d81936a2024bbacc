// Package locator resolves the external cleaning tool next to the running
// executable.
package locator

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrToolNotFound is matched by every error Locate returns for a missing or
// unusable tool.
var ErrToolNotFound = errors.New("tool not found")

type Locator struct {
	name string
	dir  string
	// executable is swapped in tests.
	executable func() (string, error)
}

// New returns a Locator for the tool called name. An empty dir means the
// directory of the running executable.
func New(name, dir string) *Locator {
	return &Locator{
		name:       name,
		dir:        dir,
		executable: os.Executable,
	}
}

// ExpectedPath returns where the tool should live without checking it.
func (l *Locator) ExpectedPath() (string, error) {
	dir := l.dir
	if dir == "" {
		exe, err := l.executable()
		if err != nil {
			return "", errors.Wrap(err, "cannot locate running executable")
		}
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		dir = filepath.Dir(exe)
	}

	name := l.name
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(name), ".exe") {
		name += ".exe"
	}
	return filepath.Join(dir, name), nil
}

// Locate returns the tool path. It stats the file on every call so a tool
// replaced between runs is picked up.
func (l *Locator) Locate() (string, error) {
	path, err := l.ExpectedPath()
	if err != nil {
		return "", errors.Mark(err, ErrToolNotFound)
	}

	info, err := os.Stat(path)
	switch {
	case err != nil:
		return "", notFound(path, "'%s' missing. Place the tool next to the textcleaner executable or set tool.dir.", l.name)
	case info.IsDir():
		return "", notFound(path, "%s is a directory, not an executable.", path)
	case runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0:
		return "", notFound(path, "%s is not executable; run chmod +x on it.", path)
	}
	return path, nil
}

func notFound(path, hint string, args ...interface{}) error {
	err := errors.Wrapf(ErrToolNotFound, "expected at %s", path)
	return errors.WithHintf(err, hint, args...)
}
