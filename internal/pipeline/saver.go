package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"textcleaner/internal/logger"
	"textcleaner/internal/models"
)

type Saver struct {
	logger logger.Logger
}

func NewSaver(log logger.Logger) *Saver {
	if log == nil {
		log = logger.Nop()
	}
	return &Saver{logger: log}
}

// Save writes the cleaned bytes to dest and then releases the result's
// scratch artifact. dest is replaced atomically.
func (s *Saver) Save(result *models.CleanResult, dest string) error {
	if result == nil {
		return fmt.Errorf("no image data to save")
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".textcleaner-save-*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(result.Data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions on %s: %w", dest, err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to move image to %s: %w", dest, err)
	}

	if err := result.Release(); err != nil {
		s.logger.Warning("ImageSaver", "failed to release scratch artifact", map[string]interface{}{
			"path":  result.OutputPath,
			"error": err.Error(),
		})
	}

	s.logger.Info("ImageSaver", "image saved", map[string]interface{}{
		"path":  dest,
		"bytes": len(result.Data),
	})
	return nil
}
