package pdfcheck

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
)

// ColorMode defines the color mode for rendering
type ColorMode string

const (
	ColorRGB  ColorMode = "rgb"
	ColorGray ColorMode = "gray"
)

// MaxPreviewDPI bounds the render raster; a letter page at this DPI is
// already about 2550x3300 px.
const MaxPreviewDPI = 300

var (
	ErrPreviewDPI = errors.New("preview dpi out of range")
	ErrPageRange  = errors.New("page out of range")
)

// Preview is a rendered JPEG of one page.
type Preview struct {
	JPEG   []byte `json:"-"`
	Page   int    `json:"page"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	DPI    int    `json:"dpi"`
}

// RenderPreview renders page (1-based) of the PDF in data as a JPEG.
func RenderPreview(data []byte, page, dpi, quality int, mode ColorMode) (Preview, error) {
	if dpi <= 0 {
		dpi = 72
	}
	if dpi > MaxPreviewDPI {
		return Preview{}, fmt.Errorf("%w: %d > %d", ErrPreviewDPI, dpi, MaxPreviewDPI)
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return Preview{}, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if page < 1 || page > doc.NumPage() {
		return Preview{}, fmt.Errorf("%w: %d (document has %d pages)", ErrPageRange, page, doc.NumPage())
	}

	// go-fitz uses 0-based indexing
	img, err := doc.ImageDPI(page-1, float64(dpi))
	if err != nil {
		return Preview{}, fmt.Errorf("failed to render page %d: %w", page, err)
	}

	bounds := img.Bounds()
	var finalImg image.Image = img
	if mode == ColorGray {
		gray := image.NewGray(bounds)
		draw.Draw(gray, bounds, img, image.Point{}, draw.Src)
		finalImg = gray
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, finalImg, &jpeg.Options{Quality: quality}); err != nil {
		return Preview{}, fmt.Errorf("failed to encode JPEG: %w", err)
	}

	log.Debug().
		Int("page", page).
		Int("width", bounds.Dx()).
		Int("height", bounds.Dy()).
		Int("jpeg_size", buf.Len()).
		Int("dpi", dpi).
		Msg("rendered pdf preview")

	return Preview{JPEG: buf.Bytes(), Page: page, Width: bounds.Dx(), Height: bounds.Dy(), DPI: dpi}, nil
}
