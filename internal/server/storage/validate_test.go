package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateImage_AcceptedTypes(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/png", "image/gif"} {
		require.NoError(t, ValidateImage(ct, 1024), ct)
	}
}

func TestValidateImage_RejectsWebP(t *testing.T) {
	// The service-side rule set accepts GIF but not WebP; the client-side
	// fallback validator is the other way around.
	require.Error(t, ValidateImage("image/webp", 1024))
}

func TestValidateImage_SizeLimit(t *testing.T) {
	require.NoError(t, ValidateImage("image/png", MaxImageSize))
	require.Error(t, ValidateImage("image/png", MaxImageSize+1))
	require.Error(t, ValidateImage("image/png", 0))
}
