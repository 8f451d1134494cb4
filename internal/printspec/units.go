package printspec

import "math"

// PixelsPerInch is the editor's screen density for page and element units.
const PixelsPerInch = 96.0

// DefaultSizeTolerance is how far, in inches, a page may differ from the
// trim size on each axis and still count as a match.
const DefaultSizeTolerance = 0.1

func PixelsToInches(px float64) float64 { return px / PixelsPerInch }
func InchesToPixels(in float64) float64 { return in * PixelsPerInch }

// PageDimensions is a document page in both editor pixels and inches.
type PageDimensions struct {
	WidthPx      float64 `json:"width_px"`
	HeightPx     float64 `json:"height_px"`
	WidthInches  float64 `json:"width_inches"`
	HeightInches float64 `json:"height_inches"`
}

// PageFromPixels converts an editor page size.
func PageFromPixels(widthPx, heightPx float64) PageDimensions {
	return PageDimensions{
		WidthPx:      widthPx,
		HeightPx:     heightPx,
		WidthInches:  PixelsToInches(widthPx),
		HeightInches: PixelsToInches(heightPx),
	}
}

// Valid is true when both sides are positive.
func (p PageDimensions) Valid() bool { return p.WidthPx > 0 && p.HeightPx > 0 }

// SizeMatch is the outcome of comparing a page to a preset.
type SizeMatch string

const (
	SizeMatched  SizeMatch = "match"
	SizeMismatch SizeMatch = "mismatch"
	SizeUnknown  SizeMatch = "unknown"
)

// CompareSize checks an editor page against the preset trim size.
func CompareSize(p PageDimensions, job PrintJobSpec, tolerance float64) SizeMatch {
	if !p.Valid() {
		return SizeUnknown
	}
	return CompareInches(p.WidthInches, p.HeightInches, job, tolerance)
}

// CompareInches checks w×h inches against the preset trim size in either
// orientation. Differences must be strictly below tolerance. A non-positive
// tolerance selects DefaultSizeTolerance; a non-positive size is unknown.
func CompareInches(widthInches, heightInches float64, job PrintJobSpec, tolerance float64) SizeMatch {
	return compare(widthInches, heightInches, job.WidthInches, job.HeightInches, tolerance)
}

func compare(w, h, tw, th, tolerance float64) SizeMatch {
	if w <= 0 || h <= 0 {
		return SizeUnknown
	}
	if tolerance <= 0 {
		tolerance = DefaultSizeTolerance
	}
	near := func(a, b float64) bool { return math.Abs(a-b) < tolerance }
	if (near(w, tw) && near(h, th)) || (near(w, th) && near(h, tw)) {
		return SizeMatched
	}
	return SizeMismatch
}

// CompareWithBleed checks w×h inches against the preset size including bleed.
func CompareWithBleed(widthInches, heightInches float64, job PrintJobSpec, tolerance float64) SizeMatch {
	return compare(widthInches, heightInches, job.BleedWidthInches(), job.BleedHeightInches(), tolerance)
}
