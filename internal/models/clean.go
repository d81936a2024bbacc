package models

import (
	"errors"
	"sync"

	"textcleaner/internal/algorithms"
)

// ErrAlreadyReleased is returned by CleanResult.Release after the first call.
var ErrAlreadyReleased = errors.New("clean result already released")

// CleanRequest carries one image through the cleaning service.
type CleanRequest struct {
	Data      []byte
	Extension string
	// Algorithm is passed to the tool when non-empty.
	Algorithm algorithms.Name
}

// CleanResult holds the cleaned bytes and the on-disk artifact they were read from.
//
// The artifact at OutputPath belongs to the caller until Release is called.
// Release deletes it exactly once.
type CleanResult struct {
	Data       []byte
	OutputPath string

	mu       sync.Mutex
	released bool
	release  func(path string) error
}

// NewCleanResult builds a result whose Release delegates to release.
func NewCleanResult(data []byte, outputPath string, release func(path string) error) *CleanResult {
	return &CleanResult{
		Data:       data,
		OutputPath: outputPath,
		release:    release,
	}
}

// Release hands the output artifact back for deletion.
func (r *CleanResult) Release() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.released {
		return ErrAlreadyReleased
	}
	r.released = true

	if r.release == nil {
		return nil
	}
	return r.release(r.OutputPath)
}

func (r *CleanResult) Released() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.released
}
