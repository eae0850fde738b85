// Package cover decodes EPUB cover images and renders JPEG thumbnails.
package cover

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	DefaultMaxWidth    = 600
	DefaultJPEGQuality = 85
	defaultMaxPixels   = 100 * 1000 * 1000 // 100 megapixels
)

// ErrTooLarge is returned when the source image exceeds the decode pixel limit.
var ErrTooLarge = errors.New("cover: image too large to decode")

// Info describes an encoded image without decoding its pixels.
type Info struct {
	Format string
	Width  int
	Height int
}

// Image is a rendered thumbnail.
type Image struct {
	Data   []byte
	Width  int
	Height int
	Format string
}

// Inspect reads the image header only.
func Inspect(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("cover: decode config: %w", err)
	}
	return Info{Format: strings.ToLower(format), Width: cfg.Width, Height: cfg.Height}, nil
}

// Thumbnail decodes data and re-encodes it as JPEG, downsizing with
// Lanczos so the width is at most maxWidth. Smaller images keep their size.
// Transparent areas are flattened onto white. Non-positive maxWidth and
// quality fall back to the defaults.
func Thumbnail(data []byte, maxWidth, quality int) (Image, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if quality <= 0 {
		quality = DefaultJPEGQuality
	}
	if quality > 100 {
		quality = 100
	}

	info, err := Inspect(data)
	if err != nil {
		return Image{}, err
	}
	pixels := uint64(info.Width) * uint64(info.Height)
	if pixels > defaultMaxPixels {
		return Image{}, fmt.Errorf("%w: %dx%d (%d pixels)", ErrTooLarge, info.Width, info.Height, pixels)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Image{}, fmt.Errorf("cover: decode: %w", err)
	}

	processed := src
	if src.Bounds().Dx() > maxWidth {
		processed = imaging.Resize(src, maxWidth, 0, imaging.Lanczos)
	}
	if hasAlpha(processed) {
		bounds := processed.Bounds()
		bg := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
		processed = imaging.Overlay(bg, processed, image.Pt(0, 0), 1.0)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, processed, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return Image{}, fmt.Errorf("cover: jpeg encode failed: %w", err)
	}

	return Image{
		Data:   buf.Bytes(),
		Width:  processed.Bounds().Dx(),
		Height: processed.Bounds().Dy(),
		Format: "jpeg",
	}, nil
}

// Extension returns the conventional file extension for a media type,
// including the leading dot, or "" when unknown.
func Extension(mediaType string) string {
	switch strings.ToLower(mediaType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

func hasAlpha(img image.Image) bool {
	if o, ok := img.(interface{ Opaque() bool }); ok {
		return !o.Opaque()
	}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a < 0xFFFF {
				return true
			}
		}
	}
	return false
}
