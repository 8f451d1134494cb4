package analysis

import (
	"time"

	"github.com/local/printssistant/internal/printspec"
	"github.com/local/printssistant/internal/quality"
	"github.com/local/printssistant/internal/tips"
)

// ImageInput is one placed image. Either Ref or the pixel size must be set;
// a zero placed size means the image fills the job's trim area.
type ImageInput struct {
	Name               string  `json:"name,omitempty"`
	Ref                string  `json:"ref,omitempty"`
	PixelWidth         int     `json:"pixel_width,omitempty"`
	PixelHeight        int     `json:"pixel_height,omitempty"`
	PlacedWidthInches  float64 `json:"placed_width_inches,omitempty"`
	PlacedHeightInches float64 `json:"placed_height_inches,omitempty"`
}

type Request struct {
	JobID    string       `json:"job_id"`
	Images   []ImageInput `json:"images"`
	Session  string       `json:"session,omitempty"`
	Sequence int64        `json:"sequence,omitempty"`
}

type ImageResult struct {
	Index                 int                    `json:"index"`
	Name                  string                 `json:"name,omitempty"`
	Ref                   string                 `json:"ref,omitempty"`
	MIMEType              string                 `json:"mime_type,omitempty"`
	PixelWidth            int                    `json:"pixel_width"`
	PixelHeight           int                    `json:"pixel_height"`
	PlacedWidthInches     float64                `json:"placed_width_inches"`
	PlacedHeightInches    float64                `json:"placed_height_inches"`
	Megapixels            float64                `json:"megapixels,omitempty"`
	ResolutionIndependent bool                   `json:"resolution_independent,omitempty"`
	Evaluation            quality.DPIEvaluation  `json:"evaluation"`
	Tier                  quality.Tier           `json:"tier"`
	Recommendation        quality.Recommendation `json:"recommendation"`
	RequiredWidth         int                    `json:"required_width,omitempty"`
	RequiredHeight        int                    `json:"required_height,omitempty"`
}

type Failure struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Ref    string `json:"ref,omitempty"`
	Reason string `json:"reason"`
}

type Report struct {
	ID            string                 `json:"id"`
	JobID         string                 `json:"job_id"`
	Job           printspec.PrintJobSpec `json:"job"`
	Session       string                 `json:"session,omitempty"`
	Sequence      int64                  `json:"sequence,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	Results       []ImageResult          `json:"results"`
	Failed        []Failure              `json:"failed,omitempty"`
	Overall       quality.Tier           `json:"overall"`
	OverallStatus quality.Status         `json:"overall_status"`

	// AllPassing is true when at least one image was analyzed and every
	// analyzed image meets the job's minimum DPI.
	AllPassing bool         `json:"all_passing"`
	Error      string       `json:"error,omitempty"`
	Tips       []tips.Tip   `json:"tips"`
	JobTip     tips.Message `json:"job_tip"`
}
