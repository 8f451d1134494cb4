package quality

import "math"

// AggregateOverallStatus returns the worst tier in tiers, or TierNone when
// tiers is empty. Unknown values are ignored.
func AggregateOverallStatus(tiers []Tier) Tier {
	worst := TierNone
	for _, t := range tiers {
		if t.Rank() < 0 {
			continue
		}
		if worst == TierNone || t.Worse(worst) {
			worst = t
		}
	}
	return worst
}

// Recommendation is a message key plus the values it interpolates.
type Recommendation struct {
	Key    string         `json:"key"`
	Values map[string]any `json:"values,omitempty"`
}

// Recommend picks the user-facing advice for a classified image. Critical
// images get the pixel size that would reach the job's minimum DPI.
func Recommend(t Tier, placedWidthInches, placedHeightInches float64, job Job, vd ViewingDistance) Recommendation {
	switch t {
	case TierExcellent:
		return Recommendation{Key: "recommendationExcellent"}
	case TierAcceptable:
		return Recommendation{Key: "recommendationAcceptable", Values: map[string]any{"distance": vd.Description}}
	case TierLow:
		return Recommendation{Key: "recommendationLow"}
	case TierCritical:
		minDPI := job.MinimumDPI()
		return Recommendation{Key: "recommendationCritical", Values: map[string]any{
			"width":  int(math.Ceil(placedWidthInches * minDPI)),
			"height": int(math.Ceil(placedHeightInches * minDPI)),
		}}
	default:
		return Recommendation{Key: "recommendationGood"}
	}
}
