package services

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"textcleaner/internal/invoker"
	"textcleaner/internal/logger"
	"textcleaner/internal/models"
)

const component = "CleaningService"

// Workspace creates and removes the files exchanged with the tool.
type Workspace interface {
	CreateInputArtifact(data []byte, ext string) (string, error)
	AllocateOutputPath(ext string) (string, error)
	DeleteArtifact(path string)
}

// ToolLocator finds the tool executable.
type ToolLocator interface {
	Locate() (string, error)
	ExpectedPath() (string, error)
}

// ToolInvoker runs the tool off the caller's goroutine.
type ToolInvoker interface {
	Start(ctx context.Context, inv invoker.Invocation) <-chan invoker.Outcome
}

type Options struct {
	// MaxConcurrent bounds simultaneous tool runs. Zero means runtime.NumCPU().
	MaxConcurrent int
}

// Completion is delivered by CleanAsync.
type Completion struct {
	Result *models.CleanResult
	Err    error
}

// CleaningService turns image bytes into cleaned image bytes via the
// external tool.
type CleaningService struct {
	workspace  Workspace
	locator    ToolLocator
	invoker    ToolInvoker
	logger     logger.Logger
	workerPool chan struct{}

	mu          sync.Mutex
	closed      bool
	outstanding map[string]*models.CleanResult
	stats       Stats
	totalTime   time.Duration
}

func NewCleaningService(ws Workspace, loc ToolLocator, inv ToolInvoker, opts Options, log logger.Logger) *CleaningService {
	workers := opts.MaxConcurrent
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool := make(chan struct{}, workers)
	for i := 0; i < workers; i++ {
		pool <- struct{}{}
	}
	if log == nil {
		log = logger.Nop()
	}

	return &CleaningService{
		workspace:   ws,
		locator:     loc,
		invoker:     inv,
		logger:      log,
		workerPool:  pool,
		outstanding: make(map[string]*models.CleanResult),
		stats:       Stats{FailuresByKind: make(map[Kind]int)},
	}
}

// Clean runs the tool on req.Data. On success the caller owns the returned
// result's output artifact and must call Release once done with it.
func (s *CleaningService) Clean(ctx context.Context, req models.CleanRequest) (*models.CleanResult, error) {
	start := time.Now()
	if s.isClosed() {
		return nil, s.fail(start, &Error{Kind: Canceled, Err: ErrServiceShutdown})
	}
	ext := models.NormalizeExtension(req.Extension)

	input, err := s.workspace.CreateInputArtifact(req.Data, ext)
	if err != nil {
		return nil, s.fail(start, &Error{Kind: InputWriteFailed, Err: err})
	}
	defer s.workspace.DeleteArtifact(input)

	output, err := s.workspace.AllocateOutputPath(ext)
	if err != nil {
		return nil, s.fail(start, &Error{Kind: InputWriteFailed, Err: err})
	}

	tool, err := s.locator.Locate()
	if err != nil {
		expected, _ := s.locator.ExpectedPath()
		return nil, s.fail(start, &Error{Kind: ToolNotFound, Path: expected, Err: err})
	}

	select {
	case <-s.workerPool:
		defer func() { s.workerPool <- struct{}{} }()
	case <-ctx.Done():
		return nil, s.fail(start, &Error{Kind: Canceled, Err: ctx.Err()})
	}

	s.logger.Debug(component, "cleaning started", map[string]interface{}{
		"bytes":     len(req.Data),
		"extension": ext,
		"algorithm": string(req.Algorithm),
	})

	outcome := <-s.invoker.Start(ctx, invoker.Invocation{
		ToolPath:   tool,
		InputPath:  input,
		OutputPath: output,
		Algorithm:  req.Algorithm,
	})

	if success, ok := outcome.(invoker.Success); ok {
		result := models.NewCleanResult(success.Data, output, s.release)
		if !s.succeed(start, result) {
			// Shutdown has already reclaimed outstanding results.
			s.workspace.DeleteArtifact(output)
			return nil, s.fail(start, &Error{Kind: Canceled, Err: ErrServiceShutdown})
		}
		return result, nil
	}

	// The tool may have left a partial file behind; it was never exposed.
	s.workspace.DeleteArtifact(output)
	return nil, s.fail(start, translate(outcome))
}

// CleanAsync runs Clean on a new goroutine. The returned channel receives
// one Completion and is then closed.
func (s *CleaningService) CleanAsync(ctx context.Context, req models.CleanRequest) <-chan Completion {
	done := make(chan Completion, 1)
	go func() {
		defer close(done)
		result, err := s.Clean(ctx, req)
		done <- Completion{Result: result, Err: err}
	}()
	return done
}

// Outstanding returns the number of results not yet released.
func (s *CleaningService) Outstanding() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.outstanding)
}

func (s *CleaningService) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Shutdown releases every result its caller never released. Later Clean
// calls fail with Canceled, and runs still in flight discard their output.
func (s *CleaningService) Shutdown() {
	s.mu.Lock()
	s.closed = true
	pending := make([]*models.CleanResult, 0, len(s.outstanding))
	for _, result := range s.outstanding {
		pending = append(pending, result)
	}
	s.mu.Unlock()

	for _, result := range pending {
		_ = result.Release()
	}

	s.logger.Info(component, "shutdown completed", map[string]interface{}{
		"reclaimed": len(pending),
	})
}

func (s *CleaningService) release(path string) error {
	s.mu.Lock()
	delete(s.outstanding, path)
	s.mu.Unlock()

	s.workspace.DeleteArtifact(path)
	return nil
}

func translate(outcome invoker.Outcome) *Error {
	switch o := outcome.(type) {
	case invoker.ExitFailure:
		return &Error{Kind: ToolExecutionFailed, ExitCode: o.ExitCode, Text: o.Text}
	case invoker.LaunchFailure:
		return &Error{Kind: LaunchFailed, Err: o.Err}
	case invoker.ReadFailure:
		return &Error{Kind: OutputUnreadable, Err: o.Err}
	case invoker.TimedOut:
		return &Error{Kind: ToolTimedOut, Text: o.Text, Err: fmt.Errorf("killed after %s", o.After)}
	case invoker.Canceled:
		return &Error{Kind: Canceled, Err: o.Err}
	default:
		return &Error{Kind: LaunchFailed, Err: fmt.Errorf("unexpected tool outcome %T", outcome)}
	}
}

// succeed tracks result and reports false when the service is already shut
// down.
func (s *CleaningService) succeed(start time.Time, result *models.CleanResult) bool {
	elapsed := time.Since(start)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.outstanding[result.OutputPath] = result
	s.record(elapsed)
	s.stats.SuccessfulRuns++
	s.mu.Unlock()

	s.logger.Info(component, "cleaning completed", map[string]interface{}{
		"output":      result.OutputPath,
		"bytes":       len(result.Data),
		"duration_ms": elapsed.Milliseconds(),
	})
	return true
}

func (s *CleaningService) fail(start time.Time, err *Error) error {
	elapsed := time.Since(start)

	s.mu.Lock()
	s.record(elapsed)
	s.stats.FailedRuns++
	s.stats.FailuresByKind[err.Kind]++
	s.mu.Unlock()

	s.logger.Error(component, err, map[string]interface{}{
		"kind":        string(err.Kind),
		"duration_ms": elapsed.Milliseconds(),
	})
	return err
}
