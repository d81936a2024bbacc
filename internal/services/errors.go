package services

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Kind classifies a cleaning failure. Kinds are errors themselves, so
// errors.Is(err, services.ToolNotFound) works on any returned error.
type Kind string

const (
	ToolNotFound        Kind = "ToolNotFound"
	LaunchFailed        Kind = "LaunchFailed"
	ToolExecutionFailed Kind = "ToolExecutionFailed"
	OutputUnreadable    Kind = "OutputUnreadable"
	InputWriteFailed    Kind = "InputWriteFailed"
	ToolTimedOut        Kind = "ToolTimedOut"
	Canceled            Kind = "Canceled"
)

// ErrServiceShutdown is wrapped by Canceled errors from a shut down service.
var ErrServiceShutdown = errors.New("cleaning service shut down")

func (k Kind) Error() string { return string(k) }

// Error is returned by CleaningService.Clean for every failure.
type Error struct {
	Kind Kind
	// Path is the expected tool location for ToolNotFound.
	Path     string
	ExitCode int
	// Text is the tool's standard error verbatim, or a synthesized message.
	Text string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case ToolNotFound:
		if e.Path != "" {
			return fmt.Sprintf("cleaning tool not found at %s", e.Path)
		}
		return fmt.Sprintf("cleaning tool not found: %v", e.Err)
	case LaunchFailed:
		return fmt.Sprintf("failed to launch cleaning tool: %v", e.Err)
	case ToolExecutionFailed:
		return fmt.Sprintf("cleaning tool failed with exit status %d: %s", e.ExitCode, strings.TrimSpace(e.Text))
	case OutputUnreadable:
		return fmt.Sprintf("cleaning tool produced no readable output: %v", e.Err)
	case InputWriteFailed:
		return fmt.Sprintf("failed to write input image: %v", e.Err)
	case ToolTimedOut:
		return fmt.Sprintf("cleaning tool timed out: %v", e.Err)
	case Canceled:
		return fmt.Sprintf("cleaning canceled: %v", e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

// Hint returns user-facing remediation attached to the underlying error.
func (e *Error) Hint() string {
	if e.Err == nil {
		return ""
	}
	return errors.FlattenHints(e.Err)
}

// KindOf extracts the Kind from err, if it is or wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
