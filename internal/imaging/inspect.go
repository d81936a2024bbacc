// Package imaging decodes image bytes with OpenCV to describe and sanity-check
// the files exchanged with the cleaning tool.
package imaging

import (
	"bytes"
	"fmt"

	"gocv.io/x/gocv"

	"textcleaner/internal/models"
)

var (
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	pngMagic  = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}
)

// Inspect decodes data and reports its dimensions and format.
func Inspect(data []byte) (models.ImageInfo, error) {
	if len(data) == 0 {
		return models.ImageInfo{}, fmt.Errorf("no image data")
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadUnchanged)
	if err != nil {
		return models.ImageInfo{}, fmt.Errorf("failed to decode image with OpenCV: %w", err)
	}
	defer mat.Close()

	if err := validateMat(&mat); err != nil {
		return models.ImageInfo{}, err
	}

	return models.ImageInfo{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Format:   DetectFormat(data),
		Size:     len(data),
	}, nil
}

// DetectFormat sniffs the container format from the leading bytes.
func DetectFormat(data []byte) string {
	switch {
	case bytes.HasPrefix(data, jpegMagic):
		return "jpeg"
	case bytes.HasPrefix(data, pngMagic):
		return "png"
	case len(data) >= 2 && data[0] == 'P':
		switch data[1] {
		case '1', '4':
			return "pbm"
		case '2', '5':
			return "pgm"
		case '3', '6':
			return "ppm"
		}
	}
	return "unknown"
}

// FormatMatchesExtension reports whether a sniffed format is plausible for a
// file extension. Netpbm variants all satisfy "ppm" because the tool may
// write a bitmap into a .ppm path.
func FormatMatchesExtension(format, ext string) bool {
	switch models.NormalizeExtension(ext) {
	case "jpg", "jpeg":
		return format == "jpeg"
	case "png":
		return format == "png"
	case "ppm":
		return format == "ppm" || format == "pgm" || format == "pbm"
	default:
		return false
	}
}
