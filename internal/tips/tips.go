// Package tips serves the prepress education tips shown next to a DPI
// analysis.
package tips

import (
	"math/rand"

	"github.com/local/printssistant/internal/printspec"
)

type Category string

const (
	CategoryGeneral       Category = "general"
	CategoryLargeFormat   Category = "large_format"
	CategoryCommonMistake Category = "common_mistake"
	CategoryProTip        Category = "pro_tip"
)

type Tip struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category Category `json:"category"`
}

var table = []Tip{
	{ID: "what_is_dpi", Category: CategoryGeneral, Title: "What is DPI?",
		Content: "DPI (Dots Per Inch) measures print resolution. Higher DPI = more detail, but for large prints viewed from a distance, lower DPI is perfectly acceptable."},
	{ID: "dpi_vs_ppi", Category: CategoryGeneral, Title: "DPI vs PPI",
		Content: "PPI (Pixels Per Inch) is for screens, DPI is for print. When we say your image needs '300 DPI,' we mean it should have enough pixels to print at 300 dots per inch at your desired size."},
	{ID: "viewing_distance", Category: CategoryGeneral, Title: "The Viewing Distance Secret",
		Content: "A billboard at 25 DPI looks perfect from 100 feet away. A business card needs 300+ DPI because you hold it 12 inches from your face. Distance is everything!"},

	{ID: "large_format_myth", Category: CategoryLargeFormat, Title: "The 300 DPI Myth",
		Content: "You do NOT need 300 DPI for large format prints! A 3x8 ft banner at 72 DPI looks great because nobody views it from 6 inches away."},
	{ID: "banner_dpi", Category: CategoryLargeFormat, Title: "Banner Resolution Guide",
		Content: "For vinyl banners: 50-72 DPI for outdoor use, 100-150 DPI for trade show displays. Your phone photos (12MP+) are usually sufficient!"},
	{ID: "large_format_formula", Category: CategoryLargeFormat, Title: "Quick DPI Formula",
		Content: "Optimal DPI = 3438 ÷ viewing distance (in inches). For a sign viewed from 10 feet (120 inches): 3438 ÷ 120 = ~29 DPI minimum."},
	{ID: "dont_upscale", Category: CategoryLargeFormat, Title: "Never Upscale for DPI",
		Content: "Resizing a 72 DPI image to 300 DPI in Photoshop doesn't add detail - it just makes the file bigger. You can't create pixels that aren't there."},

	{ID: "web_images", Category: CategoryCommonMistake, Title: "Downloaded Web Images",
		Content: "Images from Google/websites are typically 72-150 DPI and small. They may look fine on screen but will print blurry on even small format prints."},
	{ID: "social_media_images", Category: CategoryCommonMistake, Title: "Social Media Graphics",
		Content: "Facebook, Instagram, and other platforms compress images. Re-using social graphics for print often results in pixelation. Always use original files."},
	{ID: "logo_raster", Category: CategoryCommonMistake, Title: "Raster Logos",
		Content: "If your logo is a JPG or PNG, you may hit quality limits. Vector logos (AI, EPS, SVG, PDF) scale infinitely without quality loss."},
	{ID: "screenshot_warning", Category: CategoryCommonMistake, Title: "Screenshots Don't Print Well",
		Content: "Screenshots are screen resolution (72-96 PPI) and often heavily compressed. Never use screenshots for print materials."},

	{ID: "native_resolution", Category: CategoryProTip, Title: "Check Original Image Size",
		Content: "An image's print quality depends on its pixel dimensions, not the DPI metadata. A 3000x2000 pixel image can print at 10x6.67\" at 300 DPI."},
	{ID: "photo_sources", Category: CategoryProTip, Title: "Where to Get Print-Ready Images",
		Content: "Stock sites like Shutterstock, Adobe Stock, and Getty offer high-res downloads. Canva Pro images are generally print-ready for standard formats."},
	{ID: "phone_photos", Category: CategoryProTip, Title: "Modern Phone Photos",
		Content: "iPhone/Android photos (12-48MP) are often sufficient for large prints. A 12MP photo (4000x3000 pixels) prints beautifully at 13x10\" at 300 DPI, or 55x41\" at 72 DPI!"},
	{ID: "zoom_test", Category: CategoryProTip, Title: "Quick Quality Check",
		Content: "Zoom to 200% in Canva. If images look blurry at 200%, they'll likely print blurry. This is a fast way to spot problems."},
}

// All returns every tip in display order.
func All() []Tip {
	out := make([]Tip, len(table))
	copy(out, table)
	return out
}

func ByID(id string) (Tip, bool) {
	for _, t := range table {
		if t.ID == id {
			return t, true
		}
	}
	return Tip{}, false
}

// ByCategory filters tips; an empty category returns all of them.
func ByCategory(c Category) []Tip {
	if c == "" {
		return All()
	}
	var out []Tip
	for _, t := range table {
		if t.Category == c {
			out = append(out, t)
		}
	}
	return out
}

// Random picks one tip from category c (or all tips when c is empty).
// The bool is false when the category has no tips.
func Random(c Category, rng *rand.Rand) (Tip, bool) {
	pool := ByCategory(c)
	if len(pool) == 0 {
		return Tip{}, false
	}
	if rng == nil {
		return pool[rand.Intn(len(pool))], true
	}
	return pool[rng.Intn(len(pool))], true
}

// Relevant selects the tips to show for a result: the first two large
// format tips when the job is large format, the viewing distance tip, the
// web image and zoom tips when the image falls short, and the phone photo tip.
func Relevant(effectiveDPI, requiredDPI float64, largeFormat bool) []Tip {
	var out []Tip
	if largeFormat {
		lf := ByCategory(CategoryLargeFormat)
		if len(lf) > 2 {
			lf = lf[:2]
		}
		out = append(out, lf...)
	}
	out = appendByID(out, "viewing_distance")
	if effectiveDPI < requiredDPI {
		out = appendByID(out, "web_images", "zoom_test")
	}
	return appendByID(out, "phone_photos")
}

func appendByID(out []Tip, ids ...string) []Tip {
	for _, id := range ids {
		if t, ok := ByID(id); ok {
			out = append(out, t)
		}
	}
	return out
}

// Message is a localisable message key with its interpolation values.
type Message struct {
	Key    string         `json:"key"`
	Values map[string]any `json:"values,omitempty"`
}

// ForJob returns the job-scale DPI hint shown under the job header.
func ForJob(job printspec.PrintJobSpec) Message {
	switch job.Category {
	case printspec.CategoryXLarge:
		return Message{Key: "xlargeTip", Values: map[string]any{
			"minDPI": job.MinDPI, "recommendedDPI": job.RecommendedDPI,
		}}
	case printspec.CategoryLarge:
		return Message{Key: "largeTip", Values: map[string]any{
			"distance": job.ViewingDistanceLabel, "minDPI": job.MinDPI,
		}}
	default:
		return Message{Key: "smallTip", Values: map[string]any{
			"recommendedDPI": job.RecommendedDPI,
		}}
	}
}
