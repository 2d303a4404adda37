package utils

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var allowedImageExt = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

// ImageMimeType returns the mime type for an allowed image file name.
func ImageMimeType(name string) (string, bool) {
	mime, ok := allowedImageExt[strings.ToLower(filepath.Ext(name))]
	return mime, ok
}

// StoredFileName returns a collision free name keeping the original extension.
func StoredFileName(original string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(original))
}
