package upload

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/wealthboard/wealthboard/internal/shared"
)

// MaxImageSize is the largest accepted input file.
const MaxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ValidateImage checks an image before any work is spent on it. The declared
// content type is used when present; otherwise the type is sniffed from the
// payload. Runs before compression, so oversized files are rejected without
// being decoded.
func ValidateImage(declaredType string, data []byte) error {
	contentType := strings.ToLower(strings.TrimSpace(declaredType))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	if !allowedImageTypes[contentType] {
		return fmt.Errorf("%w: unsupported image type %q, expected JPEG, PNG or WebP", shared.ErrorValidation, contentType)
	}
	if len(data) > MaxImageSize {
		return fmt.Errorf("%w: image is %d bytes, limit is %d", shared.ErrorValidation, len(data), MaxImageSize)
	}
	return nil
}
