package printspec

// Rect is an axis-aligned rectangle in editor pixels.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// GuideSet holds the three guide rectangles drawn over a page laid out at
// the full bleed size. Origin is the top-left corner of the bleed box.
type GuideSet struct {
	Bleed Rect `json:"bleed"`
	Trim  Rect `json:"trim"`
	Safe  Rect `json:"safe"`
}

// Guides computes the guide rectangles for job in its preset orientation.
func Guides(job PrintJobSpec) GuideSet {
	w, h := job.WidthInches, job.HeightInches
	b := job.BleedInches
	s := job.SafeMarginInches

	return GuideSet{
		Bleed: Rect{Width: InchesToPixels(w + 2*b), Height: InchesToPixels(h + 2*b)},
		Trim: Rect{
			Left: InchesToPixels(b), Top: InchesToPixels(b),
			Width: InchesToPixels(w), Height: InchesToPixels(h),
		},
		Safe: Rect{
			Left: InchesToPixels(b + s), Top: InchesToPixels(b + s),
			Width: InchesToPixels(w - 2*s), Height: InchesToPixels(h - 2*s),
		},
	}
}
