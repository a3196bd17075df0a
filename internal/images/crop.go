package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"

	_ "image/gif"
)

// ErrEmptyRegion is returned when the crop rectangle does not overlap
// the image.
var ErrEmptyRegion = errors.New("crop region outside image bounds")

const jpegQuality = 90

// Rect is the crop region in source pixel coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Crop cuts the region out of an encoded image and re-encodes it. PNG
// input stays PNG to preserve transparency; everything else becomes
// JPEG. Returns the encoded bytes and their mime type.
func Crop(data []byte, r Rect) ([]byte, string, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}

	region := image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height).Intersect(src.Bounds())
	if region.Empty() {
		return nil, "", ErrEmptyRegion
	}

	dst := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(dst, dst.Bounds(), src, region.Min, draw.Src)

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, dst); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}

	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
