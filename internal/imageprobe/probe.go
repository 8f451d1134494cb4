// Package imageprobe reads the pixel dimensions of an uploaded image
// without decoding its pixels.
package imageprobe

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/local/printssistant/internal/quality"
)

// Size is the pixel size of an image.
type Size struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Dimensions decodes only the image header of data.
func Dimensions(data []byte) (Size, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Size{}, fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 {
		return Size{}, &quality.DimensionError{Field: "pixel width", Value: float64(cfg.Width)}
	}
	if cfg.Height <= 0 {
		return Size{}, &quality.DimensionError{Field: "pixel height", Value: float64(cfg.Height)}
	}

	log.Debug().
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Str("format", format).
		Msg("probed image dimensions")

	return Size{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// Megapixels is the pixel count in millions.
func (s Size) Megapixels() float64 {
	return float64(s.Width) * float64(s.Height) / 1e6
}
