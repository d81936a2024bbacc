package invoker

import "time"

// Outcome is the result of one tool run. It is one of Success, ExitFailure,
// LaunchFailure, ReadFailure, TimedOut or Canceled.
type Outcome interface {
	outcome()
}

// Success carries the bytes read from the output path after a zero exit.
type Success struct {
	Data []byte
}

// ExitFailure is a run that exited non-zero. Text is the tool's standard
// error verbatim, or a synthesized message when stderr was empty.
type ExitFailure struct {
	ExitCode int
	Text     string
}

// LaunchFailure means the process could not be spawned.
type LaunchFailure struct {
	Err error
}

// ReadFailure means the tool exited zero but its output could not be read.
type ReadFailure struct {
	Err error
}

// TimedOut means the run exceeded the invoker's timeout and was killed.
type TimedOut struct {
	After time.Duration
	Text  string
}

// Canceled means the caller's context ended while the tool was running.
type Canceled struct {
	Err error
}

func (Success) outcome()       {}
func (ExitFailure) outcome()   {}
func (LaunchFailure) outcome() {}
func (ReadFailure) outcome()   {}
func (TimedOut) outcome()      {}
func (Canceled) outcome()      {}
