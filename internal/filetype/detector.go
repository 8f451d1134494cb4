package filetype

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// Kind is how a design asset is treated by the resolution checks.
type Kind string

const (
	KindRaster      Kind = "raster"
	KindPDF         Kind = "pdf"
	KindVector      Kind = "vector"
	KindUnsupported Kind = "unsupported"
)

// Info contains detected asset type information
type Info struct {
	MIMEType    string `json:"mime_type"`
	Extension   string `json:"extension"`
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
}

// ResolutionIndependent is true for vector artwork, which has no pixel
// grid to run out of.
func (i Info) ResolutionIndependent() bool { return i.Kind == KindVector }

// Detector handles asset type detection using magic bytes
type Detector struct{}

// New creates a new asset type detector
func New() *Detector {
	return &Detector{}
}

// DetectBytes detects the asset type from content, never from a filename.
func (d *Detector) DetectBytes(data []byte) Info {
	mtype := mimetype.Detect(data)
	info := Info{MIMEType: mtype.String(), Extension: mtype.Extension()}
	d.classify(&info)

	log.Debug().Str("mime", info.MIMEType).Str("kind", string(info.Kind)).Msg("detected asset type")
	return info
}

// Detect reads the start of a file and classifies it. The extension is
// consulted only for EPS, which sniffs as generic PostScript.
func (d *Detector) Detect(filePath string) (Info, error) {
	mtype, err := mimetype.DetectFile(filePath)
	if err != nil {
		return Info{}, fmt.Errorf("failed to detect file type: %w", err)
	}

	info := Info{MIMEType: mtype.String(), Extension: mtype.Extension()}
	if info.MIMEType == "application/postscript" && strings.EqualFold(filepath.Ext(filePath), ".eps") {
		info.Extension = ".eps"
	}
	d.classify(&info)

	log.Debug().Str("mime", info.MIMEType).Str("kind", string(info.Kind)).Str("file", filePath).Msg("detected asset type")
	return info, nil
}

func (d *Detector) classify(info *Info) {
	mimeType := info.MIMEType
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}

	switch {
	case mimeType == "image/svg+xml":
		info.Kind = KindVector
		info.Description = "SVG vector graphic"

	case mimeType == "application/postscript":
		info.Kind = KindVector
		info.Description = "PostScript / EPS artwork"

	case mimeType == "application/pdf":
		info.Kind = KindPDF
		info.Description = "PDF document"

	case mimeType == "image/jpeg":
		info.Kind = KindRaster
		info.Description = "JPEG image"

	case mimeType == "image/png":
		info.Kind = KindRaster
		info.Description = "PNG image"

	case mimeType == "image/gif":
		info.Kind = KindRaster
		info.Description = "GIF image"

	case mimeType == "image/webp":
		info.Kind = KindRaster
		info.Description = "WebP image"

	case mimeType == "image/tiff":
		info.Kind = KindRaster
		info.Description = "TIFF image"

	case mimeType == "image/bmp":
		info.Kind = KindRaster
		info.Description = "BMP image"

	// Other image types (HEIC, AVIF, ...) are recognised but cannot be
	// decoded for pixel dimensions.
	case strings.HasPrefix(mimeType, "image/"):
		info.Kind = KindUnsupported
		info.Description = fmt.Sprintf("Image format not supported for analysis: %s", mimeType)

	default:
		info.Kind = KindUnsupported
		info.Description = fmt.Sprintf("Unsupported file type: %s", mimeType)
	}
}

// Analyzable reports whether pixel dimensions can be read from data.
func (d *Detector) Analyzable(data []byte) bool {
	return d.DetectBytes(data).Kind == KindRaster
}
