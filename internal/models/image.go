package models

import (
	"fmt"
	"strings"
)

// SupportedExtensions lists the formats the front end accepts.
var SupportedExtensions = []string{"jpg", "jpeg", "png", "ppm"}

// ImageInfo describes a decoded image.
type ImageInfo struct {
	Width    int
	Height   int
	Channels int
	Format   string
	Size     int
}

func (i ImageInfo) String() string {
	return fmt.Sprintf("%s %dx%d, %d channel(s), %d bytes", i.Format, i.Width, i.Height, i.Channels, i.Size)
}

// NormalizeExtension strips a leading dot and lower-cases ext.
func NormalizeExtension(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}

// IsSupportedExtension reports whether ext is in SupportedExtensions.
func IsSupportedExtension(ext string) bool {
	ext = NormalizeExtension(ext)
	for _, s := range SupportedExtensions {
		if s == ext {
			return true
		}
	}
	return false
}
