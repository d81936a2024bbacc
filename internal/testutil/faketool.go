// Package testutil provides fake cleaning tools for tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// argParser leaves the tool arguments in $in, $out and $alg.
const argParser = `#!/bin/sh
while [ $# -gt 0 ]; do
  case "$1" in
    -i) in="$2"; shift 2 ;;
    -o) out="$2"; shift 2 ;;
    -a) alg="$2"; shift 2 ;;
    *) shift ;;
  esac
done
`

// Common tool bodies.
const (
	// CopyTool copies the input to the output unchanged.
	CopyTool = `cp "$in" "$out"`
	// EchoArgsTool writes the algorithm it was given, or "default".
	EchoArgsTool = `printf '%s' "${alg:-default}" > "$out"`
	// BadHeaderTool fails like a tool rejecting a corrupt image.
	BadHeaderTool = `printf 'bad header' >&2; exit 2`
	// SilentFailTool exits non-zero without writing to stderr.
	SilentFailTool = `exit 3`
	// VanishingOutputTool claims success after removing its own output.
	VanishingOutputTool = `cp "$in" "$out"; rm -f "$out"; exit 0`
	// SlowTool copies after a delay.
	SlowTool = `sleep 1; cp "$in" "$out"`
	// HangingTool never finishes on its own. exec keeps the kill aimed at
	// the process that holds the output pipes.
	HangingTool = `exec sleep 30`
	// LingeringChildTool succeeds but leaves a background process holding
	// its stdout and stderr.
	LingeringChildTool = `cp "$in" "$out"; (sleep 8 &); exit 0`
)

// SkipWithoutShell skips tests that rely on /bin/sh scripts.
func SkipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are POSIX shell scripts")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

// WriteTool writes an executable script called name into dir. body runs
// after the argument parser.
func WriteTool(t *testing.T, dir, name, body string) string {
	t.Helper()
	SkipWithoutShell(t)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(argParser+body+"\n"), 0o755); err != nil {
		t.Fatalf("write fake tool: %v", err)
	}
	return path
}
