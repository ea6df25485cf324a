package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/draw"
)

// Banner size used by the classic dashboard.
const (
	BannerWidth  = 1200
	BannerHeight = 150
)

// Banner decodes the JPEG or PNG at path and resizes it to exactly
// width x height, returning the result PNG-encoded.
func Banner(path string, width, height int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("banner: open %q: %w", path, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("banner: decode %q: %w", path, err)
	}
	return Resize(src, width, height)
}

// Resize scales img to width x height with Catmull-Rom interpolation and
// encodes it as PNG.
func Resize(img image.Image, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("banner: invalid size %dx%d", width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("banner: encode: %w", err)
	}
	return buf.Bytes(), nil
}
