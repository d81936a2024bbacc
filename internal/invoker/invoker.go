// Package invoker runs the external cleaning tool as a child process.
package invoker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"textcleaner/internal/algorithms"
	"textcleaner/internal/logger"
)

const component = "Invoker"

// waitDelay bounds how long Wait keeps reading pipes after the child exits
// or is killed. A descendant that inherited the pipes can hold them open.
var waitDelay = 5 * time.Second

// Invocation names the files for one run.
type Invocation struct {
	ToolPath   string
	InputPath  string
	OutputPath string
	// Algorithm is omitted from the argument vector when empty.
	Algorithm algorithms.Name
}

type Options struct {
	// AlgorithmFlag precedes the algorithm identifier, e.g. "-a".
	AlgorithmFlag string
	// Timeout kills the tool after the given duration. Zero waits forever.
	Timeout time.Duration
}

type Invoker struct {
	opts   Options
	logger logger.Logger
}

func New(opts Options, log logger.Logger) *Invoker {
	if opts.AlgorithmFlag == "" {
		opts.AlgorithmFlag = "-a"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Invoker{opts: opts, logger: log}
}

// Args builds the tool's argument vector.
func (iv *Invoker) Args(inv Invocation) []string {
	args := []string{"-i", inv.InputPath, "-o", inv.OutputPath}
	if inv.Algorithm != "" {
		args = append(args, iv.opts.AlgorithmFlag, string(inv.Algorithm))
	}
	return args
}

// Start runs the tool on its own goroutine and returns a channel that
// receives exactly one Outcome and is then closed.
func (iv *Invoker) Start(ctx context.Context, inv Invocation) <-chan Outcome {
	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		done <- iv.run(ctx, inv)
	}()
	return done
}

// Run blocks until the tool has finished.
func (iv *Invoker) Run(ctx context.Context, inv Invocation) Outcome {
	return <-iv.Start(ctx, inv)
}

func (iv *Invoker) run(ctx context.Context, inv Invocation) Outcome {
	runCtx := ctx
	if iv.opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, iv.opts.Timeout)
		defer cancel()
	}

	tool := toolName(inv.ToolPath)
	args := iv.Args(inv)

	cmd := exec.CommandContext(runCtx, inv.ToolPath, args...)
	cmd.WaitDelay = waitDelay

	var stderr bytes.Buffer
	stdout := &lineLogger{logger: iv.logger, tool: tool}
	cmd.Stderr = &stderr
	cmd.Stdout = stdout

	iv.logger.Debug(component, "starting tool", map[string]interface{}{
		"tool": inv.ToolPath,
		"args": args,
	})

	start := time.Now()
	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Canceled{Err: ctxErr}
		}
		iv.logger.Error(component, err, map[string]interface{}{"tool": inv.ToolPath})
		return LaunchFailure{Err: fmt.Errorf("start %s: %w", tool, err)}
	}

	waitErr := cmd.Wait()
	stdout.Flush()
	elapsed := time.Since(start)

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	iv.logger.Info(component, "tool finished", map[string]interface{}{
		"tool":         tool,
		"exit_code":    exitCode,
		"duration_ms":  elapsed.Milliseconds(),
		"stderr_bytes": stderr.Len(),
	})

	if waitErr != nil && errors.Is(waitErr, exec.ErrWaitDelay) &&
		cmd.ProcessState != nil && cmd.ProcessState.Success() {
		// The tool itself exited 0; only a leftover child kept the pipes open.
		iv.logger.Warning(component, "tool left output pipes open", map[string]interface{}{
			"tool":          tool,
			"wait_delay_ms": waitDelay.Milliseconds(),
		})
		waitErr = nil
	}
	if waitErr != nil {
		return iv.classifyWaitError(ctx, runCtx, waitErr, tool, stderr.String())
	}

	data, err := os.ReadFile(inv.OutputPath)
	if err != nil {
		return ReadFailure{Err: fmt.Errorf("%s reported success but output is unreadable: %w", tool, err)}
	}
	return Success{Data: data}
}

// classifyWaitError maps a failed Wait to an Outcome. Context checks come
// first because a killed child also surfaces as an *exec.ExitError.
func (iv *Invoker) classifyWaitError(parent, runCtx context.Context, waitErr error, tool, stderrText string) Outcome {
	if err := parent.Err(); err != nil {
		return Canceled{Err: err}
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return TimedOut{After: iv.opts.Timeout, Text: stderrText}
	}

	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		code := exitErr.ExitCode()
		text := stderrText
		if text == "" {
			if code < 0 {
				text = fmt.Sprintf("%s terminated: %s", tool, exitErr.ProcessState.String())
			} else {
				text = fmt.Sprintf("%s exited with status %d", tool, code)
			}
		}
		return ExitFailure{ExitCode: code, Text: text}
	}

	// Wait failed without an exit status, e.g. the output pipes broke.
	return LaunchFailure{Err: fmt.Errorf("wait %s: %w", tool, waitErr)}
}

func toolName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
