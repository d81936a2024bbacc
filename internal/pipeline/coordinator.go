package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"textcleaner/internal/algorithms"
	"textcleaner/internal/logger"
	"textcleaner/internal/models"
)

// FileResult reports one file's trip through the pipeline.
type FileResult struct {
	Input    string
	Output   string
	Err      error
	Duration time.Duration
}

// Coordinator drives files from disk through the cleaner and back to disk.
type Coordinator struct {
	cleaner       Cleaner
	loader        *Loader
	saver         *Saver
	logger        logger.Logger
	maxConcurrent int
}

func NewCoordinator(cleaner Cleaner, loader *Loader, saver *Saver, maxConcurrent int, log logger.Logger) *Coordinator {
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.NumCPU()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Coordinator{
		cleaner:       cleaner,
		loader:        loader,
		saver:         saver,
		logger:        log,
		maxConcurrent: maxConcurrent,
	}
}

// CleanFile loads input, cleans it and saves the result to output.
func (c *Coordinator) CleanFile(ctx context.Context, input, output string, alg algorithms.Name) FileResult {
	start := time.Now()
	res := FileResult{Input: input, Output: output}

	source, err := c.loader.Load(input)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	result, err := c.cleaner.Clean(ctx, models.CleanRequest{
		Data:      source.Data,
		Extension: source.Extension,
		Algorithm: alg,
	})
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	if err := c.saver.Save(result, output); err != nil {
		_ = result.Release()
		res.Err = err
	}
	res.Duration = time.Since(start)
	return res
}

// CleanFiles cleans inputs concurrently into outDir. Per-file failures are
// reported in the results; the returned error is only set when the batch
// itself could not run.
func (c *Coordinator) CleanFiles(ctx context.Context, inputs []string, outDir string, alg algorithms.Name) ([]FileResult, error) {
	outputs := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, input := range inputs {
		out := DefaultOutputPath(input, outDir)
		if prev, dup := seen[out]; dup {
			return nil, fmt.Errorf("%s and %s would both be written to %s", prev, input, out)
		}
		seen[out] = input
		outputs[i] = out
	}

	results := make([]FileResult, len(inputs))
	var g errgroup.Group
	g.SetLimit(c.maxConcurrent)

	for i := range inputs {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = FileResult{Input: inputs[i], Output: outputs[i], Err: err}
				return nil
			}
			results[i] = c.CleanFile(ctx, inputs[i], outputs[i], alg)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	c.logger.Info("PipelineCoordinator", "batch completed", map[string]interface{}{
		"files":  len(inputs),
		"failed": failed,
	})

	return results, ctx.Err()
}
