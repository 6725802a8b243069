package storage

import (
	"fmt"
)

// MaxImageSize is the upload size cap, 5MB.
const MaxImageSize = 5 * 1024 * 1024

// Accepted MIME types for the service-side validator. Note this deliberately
// differs from the client-side fallback validator (upload.ValidateImage),
// which accepts WebP instead of GIF. The two rule sets are kept separate on
// purpose; unifying them is a product decision.
var acceptedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

// ValidateImage is the service-side image check applied before an object is
// accepted into the profile-images bucket.
func ValidateImage(contentType string, size int64) error {
	if size <= 0 {
		return fmt.Errorf("empty file")
	}
	if size > MaxImageSize {
		return fmt.Errorf("file too large: %d bytes (max %d)", size, MaxImageSize)
	}
	if _, ok := acceptedImageTypes[contentType]; !ok {
		return fmt.Errorf("unsupported image type %q", contentType)
	}
	return nil
}
