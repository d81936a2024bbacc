package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"textcleaner/internal/models"
)

// ErrUnsupportedFileType is returned for inputs outside models.SupportedExtensions.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// Cleaner is the cleaning operation the pipeline drives.
type Cleaner interface {
	Clean(ctx context.Context, req models.CleanRequest) (*models.CleanResult, error)
}

// DefaultOutputPath places "<name>-cleaned.<ext>" in dir, or next to input
// when dir is empty.
func DefaultOutputPath(input, dir string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + "-cleaned" + ext
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}
