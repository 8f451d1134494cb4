// Package quality evaluates image resolution against print job requirements.
//
// Every function in this package is pure and safe for concurrent use. DPI
// values are kept unrounded for classification; Rounded exists for display.
package quality

import "math"

const (
	acceptableFactor = 0.75
	lowFactor        = 0.5
)

// Job is the part of a print job the evaluator needs.
type Job interface {
	MinimumDPI() float64
	RecommendedMinimumDPI() float64
}

// Thresholds is a standalone Job, handy when no catalog entry exists.
type Thresholds struct {
	MinDPI         float64 `json:"min_dpi"`
	RecommendedDPI float64 `json:"recommended_dpi"`
}

func (t Thresholds) MinimumDPI() float64            { return t.MinDPI }
func (t Thresholds) RecommendedMinimumDPI() float64 { return t.RecommendedDPI }

// Validate requires 0 < MinDPI <= RecommendedDPI.
func (t Thresholds) Validate() error {
	if !positive(t.MinDPI) {
		return invalid("min_dpi", t.MinDPI)
	}
	if !positive(t.RecommendedDPI) || t.RecommendedDPI < t.MinDPI {
		return invalid("recommended_dpi", t.RecommendedDPI)
	}
	return nil
}

// EffectiveDPI holds the per-axis resolution of a placed image.
type EffectiveDPI struct {
	Horizontal float64 `json:"horizontal_dpi"`
	Vertical   float64 `json:"vertical_dpi"`
	// Effective is the binding (lower) axis.
	Effective float64 `json:"effective_dpi"`
}

// RoundedDPI is EffectiveDPI rounded to whole dots for display.
type RoundedDPI struct {
	Horizontal int `json:"horizontal"`
	Vertical   int `json:"vertical"`
	Effective  int `json:"effective"`
}

// Rounded returns the display form of d.
func (d EffectiveDPI) Rounded() RoundedDPI {
	return RoundedDPI{
		Horizontal: int(math.Round(d.Horizontal)),
		Vertical:   int(math.Round(d.Vertical)),
		Effective:  int(math.Round(d.Effective)),
	}
}

// ComputeEffectiveDPI divides pixel counts by the printed size in inches.
func ComputeEffectiveDPI(pixelWidth, pixelHeight int, printedWidthInches, printedHeightInches float64) (EffectiveDPI, error) {
	switch {
	case pixelWidth <= 0:
		return EffectiveDPI{}, invalid("pixel_width", float64(pixelWidth))
	case pixelHeight <= 0:
		return EffectiveDPI{}, invalid("pixel_height", float64(pixelHeight))
	case !positive(printedWidthInches):
		return EffectiveDPI{}, invalid("printed_width_inches", printedWidthInches)
	case !positive(printedHeightInches):
		return EffectiveDPI{}, invalid("printed_height_inches", printedHeightInches)
	}

	h := float64(pixelWidth) / printedWidthInches
	v := float64(pixelHeight) / printedHeightInches
	return EffectiveDPI{Horizontal: h, Vertical: v, Effective: math.Min(h, v)}, nil
}

// ClassifyQuality maps an effective DPI to a tier. Each boundary value
// belongs to the better tier.
func ClassifyQuality(effectiveDPI float64, job Job) (Tier, error) {
	if effectiveDPI < 0 || math.IsNaN(effectiveDPI) {
		return "", invalid("effective_dpi", effectiveDPI)
	}
	minDPI := job.MinimumDPI()
	if !positive(minDPI) {
		return "", invalid("min_dpi", minDPI)
	}

	switch {
	case effectiveDPI >= job.RecommendedMinimumDPI():
		return TierExcellent, nil
	case effectiveDPI >= minDPI:
		return TierGood, nil
	case effectiveDPI >= minDPI*acceptableFactor:
		return TierAcceptable, nil
	case effectiveDPI >= minDPI*lowFactor:
		return TierLow, nil
	default:
		return TierCritical, nil
	}
}

// RequiredPixels is the pixel size needed to print w×h inches at targetDPI.
func RequiredPixels(widthInches, heightInches, targetDPI float64) (width, height int) {
	return int(math.Ceil(widthInches * targetDPI)), int(math.Ceil(heightInches * targetDPI))
}

// DPIEvaluation is the outcome of evaluating one placed image.
type DPIEvaluation struct {
	EffectiveDPI
	Display         RoundedDPI      `json:"display"`
	Tier            Tier            `json:"quality_tier"`
	ViewingDistance ViewingDistance `json:"viewing_distance"`
}

// Evaluate runs the DPI, tier and viewing distance steps for one image.
func Evaluate(pixelWidth, pixelHeight int, printedWidthInches, printedHeightInches float64, job Job) (DPIEvaluation, error) {
	dpi, err := ComputeEffectiveDPI(pixelWidth, pixelHeight, printedWidthInches, printedHeightInches)
	if err != nil {
		return DPIEvaluation{}, err
	}
	tier, err := ClassifyQuality(dpi.Effective, job)
	if err != nil {
		return DPIEvaluation{}, err
	}
	vd, err := EstimateMinimumViewingDistance(dpi.Effective)
	if err != nil {
		return DPIEvaluation{}, err
	}
	return DPIEvaluation{
		EffectiveDPI:    dpi,
		Display:         dpi.Rounded(),
		Tier:            tier,
		ViewingDistance: vd,
	}, nil
}
