package quality

import "strings"

// Tier is the print suitability class of an image for a given job.
type Tier string

const (
	TierExcellent  Tier = "excellent"
	TierGood       Tier = "good"
	TierAcceptable Tier = "acceptable"
	TierLow        Tier = "low"
	TierCritical   Tier = "critical"

	// TierNone is the aggregate of an empty result set.
	TierNone Tier = "none"
)

// Tiers lists the classification tiers ordered worst to best.
var Tiers = []Tier{TierCritical, TierLow, TierAcceptable, TierGood, TierExcellent}

// Rank orders tiers by quality: critical is 0, excellent is 4. TierNone and
// unknown values rank -1.
func (t Tier) Rank() int {
	for i, v := range Tiers {
		if v == t {
			return i
		}
	}
	return -1
}

// Worse reports whether t is a more severe tier than other.
func (t Tier) Worse(other Tier) bool {
	return t.Rank() >= 0 && t.Rank() < other.Rank()
}

// Passing is true for tiers that meet the job's minimum DPI.
func (t Tier) Passing() bool {
	return t == TierExcellent || t == TierGood
}

// IsValidTier returns true if s names one of the classification tiers.
func IsValidTier(s string) bool {
	return Tier(strings.ToLower(s)).Rank() >= 0
}

// ParseTier converts s to a Tier. The boolean is false for unknown names.
func ParseTier(s string) (Tier, bool) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if t == TierNone {
		return t, true
	}
	return t, t.Rank() >= 0
}

// Status is the display metadata attached to a tier.
type Status struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

var statuses = map[Tier]Status{
	TierExcellent: {
		Label:       "Excellent",
		Color:       "#10B981",
		Description: "Image quality exceeds requirements. Will print beautifully!",
	},
	TierGood: {
		Label:       "Good",
		Color:       "#22C55E",
		Description: "Meets recommended quality. Will print well.",
	},
	TierAcceptable: {
		Label:       "Acceptable",
		Color:       "#F59E0B",
		Description: "Below recommended but may be acceptable depending on content.",
	},
	TierLow: {
		Label:       "Low Quality",
		Color:       "#F97316",
		Description: "Below minimum. May show visible pixelation when printed.",
	},
	TierCritical: {
		Label:       "Too Low",
		Color:       "#EF4444",
		Description: "Significantly below requirements. Will print blurry.",
	},
	TierNone: {
		Label:       "Not Checked",
		Color:       "#9CA3AF",
		Description: "No images have been analyzed yet.",
	},
}

// StatusInfo returns the display metadata for t.
func StatusInfo(t Tier) (Status, bool) {
	s, ok := statuses[t]
	return s, ok
}
