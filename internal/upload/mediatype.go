package upload

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"vicharcha/internal/domain"
)

var ErrUnsupportedMedia = errors.New("unsupported media type")

var validContentTypes = map[string]domain.MediaType{
	"image/jpeg":      domain.MediaImage,
	"image/png":       domain.MediaImage,
	"image/gif":       domain.MediaImage,
	"image/webp":      domain.MediaImage,
	"video/mp4":       domain.MediaVideo,
	"video/webm":      domain.MediaVideo,
	"video/quicktime": domain.MediaVideo,
}

var validExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// MediaTypeFor resolves the story media kind from a declared content type,
// falling back to the file extension (chunk blobs are usually sent as
// application/octet-stream).
func MediaTypeFor(contentType, filename string) (domain.MediaType, error) {
	if ct, _, err := mime.ParseMediaType(contentType); err == nil {
		if t, ok := validContentTypes[strings.ToLower(ct)]; ok {
			return t, nil
		}
	}

	if ct, ok := validExtensions[strings.ToLower(filepath.Ext(filename))]; ok {
		return validContentTypes[ct], nil
	}

	return "", fmt.Errorf("%w: supported types are JPG, PNG, GIF, WEBP, MP4, WEBM, MOV", ErrUnsupportedMedia)
}
