package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"textcleaner/internal/imaging"
	"textcleaner/internal/logger"
	"textcleaner/internal/models"
)

// Source is an image read from disk and ready to clean.
type Source struct {
	Path      string
	Data      []byte
	Extension string
	// Info is set when the loader verified the image.
	Info *models.ImageInfo
}

type Loader struct {
	logger logger.Logger
	verify bool
}

// NewLoader returns a Loader. With verify set, every file is decoded before
// it is accepted.
func NewLoader(log logger.Logger, verify bool) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{logger: log, verify: verify}
}

func (l *Loader) Load(path string) (*Source, error) {
	ext := models.NormalizeExtension(filepath.Ext(path))
	if !models.IsSupportedExtension(ext) {
		return nil, fmt.Errorf("%s: %w (%q)", path, ErrUnsupportedFileType, ext)
	}

	l.logger.Debug("ImageLoader", "loading image", map[string]interface{}{
		"path":      path,
		"extension": ext,
	})

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	source := &Source{Path: path, Data: data, Extension: ext}
	if !l.verify {
		return source, nil
	}

	info, err := imaging.Inspect(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !imaging.FormatMatchesExtension(info.Format, ext) {
		return nil, fmt.Errorf("%s: content is %s but extension is %s: %w", path, info.Format, ext, ErrUnsupportedFileType)
	}
	source.Info = &info

	l.logger.Info("ImageLoader", "image loaded successfully", map[string]interface{}{
		"width":    info.Width,
		"height":   info.Height,
		"channels": info.Channels,
		"format":   info.Format,
	})
	return source, nil
}
