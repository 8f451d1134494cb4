// Package printspec holds the print product presets and the unit and
// geometry helpers that compare a document page against them.
package printspec

import (
	"errors"
	"fmt"
	"math"
)

// Category groups presets by physical scale.
type Category string

const (
	CategorySmall    Category = "small"
	CategoryStandard Category = "standard"
	CategoryLarge    Category = "large"
	CategoryXLarge   Category = "xlarge"
)

// IsValid returns true for the four known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategorySmall, CategoryStandard, CategoryLarge, CategoryXLarge:
		return true
	}
	return false
}

// IsLargeFormat is true for posters, banners and bigger.
func (c Category) IsLargeFormat() bool {
	return c == CategoryLarge || c == CategoryXLarge
}

// CategoryInfo describes a category for display.
type CategoryInfo struct {
	ID          Category `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
}

var ErrUnknownJob = errors.New("unknown print job")

// PrintJobSpec is one print product preset. Values are immutable once the
// catalog is loaded.
type PrintJobSpec struct {
	ID                   string   `yaml:"id" json:"id"`
	Name                 string   `yaml:"name" json:"name"`
	Category             Category `yaml:"category" json:"category"`
	WidthInches          float64  `yaml:"width" json:"width_inches"`
	HeightInches         float64  `yaml:"height" json:"height_inches"`
	BleedInches          float64  `yaml:"bleed" json:"bleed_inches"`
	SafeMarginInches     float64  `yaml:"safe_margin" json:"safe_margin_inches"`
	MinDPI               float64  `yaml:"min_dpi" json:"min_dpi"`
	RecommendedDPI       float64  `yaml:"recommended_dpi" json:"recommended_dpi"`
	ViewingDistanceLabel string   `yaml:"viewing_distance" json:"viewing_distance"`
	Notes                string   `yaml:"notes" json:"notes"`
}

func (j PrintJobSpec) MinimumDPI() float64            { return j.MinDPI }
func (j PrintJobSpec) RecommendedMinimumDPI() float64 { return j.RecommendedDPI }

// Validate checks the preset invariants.
func (j PrintJobSpec) Validate() error {
	switch {
	case j.ID == "":
		return errors.New("job id is empty")
	case !j.Category.IsValid():
		return fmt.Errorf("job %s: unknown category %q", j.ID, j.Category)
	case j.WidthInches <= 0 || j.HeightInches <= 0:
		return fmt.Errorf("job %s: trim size must be positive, got %vx%v", j.ID, j.WidthInches, j.HeightInches)
	case j.BleedInches < 0:
		return fmt.Errorf("job %s: bleed must not be negative", j.ID)
	case j.SafeMarginInches < 0 || j.SafeMarginInches >= math.Min(j.WidthInches, j.HeightInches)/2:
		return fmt.Errorf("job %s: safe margin %v out of range", j.ID, j.SafeMarginInches)
	case j.MinDPI <= 0 || j.MinDPI > j.RecommendedDPI:
		return fmt.Errorf("job %s: need 0 < min_dpi <= recommended_dpi, got %v/%v", j.ID, j.MinDPI, j.RecommendedDPI)
	}
	return nil
}

// BleedWidthInches is the full sheet width including bleed on both sides.
func (j PrintJobSpec) BleedWidthInches() float64 { return j.WidthInches + 2*j.BleedInches }

// BleedHeightInches is the full sheet height including bleed on both sides.
func (j PrintJobSpec) BleedHeightInches() float64 { return j.HeightInches + 2*j.BleedInches }
