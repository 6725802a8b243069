package upload

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// jpegQuality balances visual quality against upload size for photos.
const jpegQuality = 85

// compressImage decodes data, scales it down so the longest side is at most
// maxDimension (never scaling up), and re-encodes as JPEG. The output format
// is always JPEG regardless of input; transparency is flattened onto white.
func compressImage(data []byte, maxDimension int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("decode image: empty bounds")
	}

	targetW, targetH := w, h
	if w > maxDimension || h > maxDimension {
		if w >= h {
			targetW = maxDimension
			targetH = h * maxDimension / w
		} else {
			targetH = maxDimension
			targetW = w * maxDimension / h
		}
		if targetW < 1 {
			targetW = 1
		}
		if targetH < 1 {
			targetH = 1
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	// White background so transparent PNG regions do not turn black in JPEG.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
