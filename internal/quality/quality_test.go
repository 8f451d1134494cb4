package quality

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEffectiveDPI_UsesLowerAxis(t *testing.T) {
	d, err := ComputeEffectiveDPI(4000, 3000, 24, 36)
	require.NoError(t, err)

	assert.InDelta(t, 166.6667, d.Horizontal, 0.001)
	assert.InDelta(t, 83.3333, d.Vertical, 0.001)
	assert.Equal(t, math.Min(4000.0/24, 3000.0/36), d.Effective)

	r := d.Rounded()
	assert.Equal(t, RoundedDPI{Horizontal: 167, Vertical: 83, Effective: 83}, r)
}

func TestComputeEffectiveDPI_ExactRatio(t *testing.T) {
	cases := []struct {
		pw, ph int
		w, h   float64
	}{
		{1050, 600, 3.5, 2},
		{1, 1, 0.3, 7},
		{6000, 4000, 13.3, 10.1},
		{2480, 3508, 8.27, 11.69},
	}
	for _, tc := range cases {
		d, err := ComputeEffectiveDPI(tc.pw, tc.ph, tc.w, tc.h)
		require.NoError(t, err)
		assert.Equal(t, math.Min(float64(tc.pw)/tc.w, float64(tc.ph)/tc.h), d.Effective)
	}
}

func TestComputeEffectiveDPI_InvalidInputs(t *testing.T) {
	cases := []struct {
		name   string
		pw, ph int
		w, h   float64
	}{
		{"zero width px", 0, 10, 1, 1},
		{"negative height px", 10, -1, 1, 1},
		{"zero printed width", 10, 10, 0, 1},
		{"negative printed height", 10, 10, 1, -2},
		{"nan printed width", 10, 10, math.NaN(), 1},
		{"inf printed height", 10, 10, 1, math.Inf(1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeEffectiveDPI(tc.pw, tc.ph, tc.w, tc.h)
			assert.ErrorIs(t, err, ErrInvalidDimension)

			var de *DimensionError
			assert.True(t, errors.As(err, &de))
		})
	}
}

func TestClassifyQuality_Thresholds(t *testing.T) {
	job := Thresholds{MinDPI: 100, RecommendedDPI: 150}
	cases := []struct {
		dpi  float64
		want Tier
	}{
		{300, TierExcellent},
		{150, TierExcellent},
		{149.999, TierGood},
		{100, TierGood},
		{99.99, TierAcceptable},
		{75, TierAcceptable},
		{74.999, TierLow},
		{50, TierLow},
		{49.999, TierCritical},
		{0, TierCritical},
	}
	for _, tc := range cases {
		got, err := ClassifyQuality(tc.dpi, job)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "dpi=%v", tc.dpi)
	}
}

func TestClassifyQuality_RecommendedBoundaryIsInclusive(t *testing.T) {
	got, err := ClassifyQuality(300, Thresholds{MinDPI: 300, RecommendedDPI: 300})
	require.NoError(t, err)
	assert.Equal(t, TierExcellent, got)
}

func TestClassifyQuality_Monotonic(t *testing.T) {
	job := Thresholds{MinDPI: 72, RecommendedDPI: 100}
	prev := -1
	for dpi := 0.0; dpi <= 200; dpi += 0.25 {
		tier, err := ClassifyQuality(dpi, job)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, tier.Rank(), prev, "dpi=%v", dpi)
		prev = tier.Rank()
	}
}

func TestClassifyQuality_Invalid(t *testing.T) {
	_, err := ClassifyQuality(-1, Thresholds{MinDPI: 100, RecommendedDPI: 150})
	assert.ErrorIs(t, err, ErrInvalidDimension)

	_, err = ClassifyQuality(100, Thresholds{MinDPI: 0, RecommendedDPI: 150})
	assert.ErrorIs(t, err, ErrInvalidDimension)

	_, err = ClassifyQuality(math.NaN(), Thresholds{MinDPI: 100, RecommendedDPI: 150})
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, Thresholds{MinDPI: 150, RecommendedDPI: 150}.Validate())
	assert.NoError(t, Thresholds{MinDPI: 100, RecommendedDPI: 150}.Validate())

	err := Thresholds{MinDPI: 300, RecommendedDPI: 100}.Validate()
	var de *DimensionError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "recommended_dpi", de.Field)

	assert.ErrorIs(t, Thresholds{MinDPI: 150, RecommendedDPI: -1}.Validate(), ErrInvalidDimension)
	assert.ErrorIs(t, Thresholds{MinDPI: 0, RecommendedDPI: 150}.Validate(), ErrInvalidDimension)
}

func TestEstimateMinimumViewingDistance_Buckets(t *testing.T) {
	cases := []struct {
		dpi  float64
		desc string
	}{
		{3438, "1 inches or closer"},
		{300, "11 inches or closer"},
		{150, "1.9 feet (arm's length)"},
		{229.2, "1.3 feet (arm's length)"},
		{72, "4 feet (across a room)"},
		{30, "10 feet (across a room)"},
		{25, "11+ feet (outdoor signage distance)"},
	}
	for _, tc := range cases {
		vd, err := EstimateMinimumViewingDistance(tc.dpi)
		require.NoError(t, err)
		assert.Equal(t, tc.desc, vd.Description, "dpi=%v", tc.dpi)
	}
}

func TestEstimateMinimumViewingDistance_Values(t *testing.T) {
	vd, err := EstimateMinimumViewingDistance(3438)
	require.NoError(t, err)
	assert.InDelta(t, 0.083, vd.MinimumFeet, 0.001)

	vd, err = EstimateMinimumViewingDistance(72)
	require.NoError(t, err)
	assert.InDelta(t, 47.75, vd.MinimumInches, 1e-9)
	assert.InDelta(t, 3.98, vd.MinimumFeet, 0.01)
}

func TestEstimateMinimumViewingDistance_Invalid(t *testing.T) {
	for _, dpi := range []float64{0, -10, math.NaN()} {
		_, err := EstimateMinimumViewingDistance(dpi)
		assert.ErrorIs(t, err, ErrInvalidDimension)
	}
}

func TestAggregateOverallStatus(t *testing.T) {
	assert.Equal(t, TierNone, AggregateOverallStatus(nil))
	assert.Equal(t, TierNone, AggregateOverallStatus([]Tier{}))
	assert.Equal(t, TierCritical, AggregateOverallStatus([]Tier{TierGood, TierCritical, TierExcellent}))
	assert.Equal(t, TierAcceptable, AggregateOverallStatus([]Tier{TierExcellent, TierAcceptable, TierGood}))
	assert.Equal(t, TierExcellent, AggregateOverallStatus([]Tier{TierExcellent}))
	assert.Equal(t, TierLow, AggregateOverallStatus([]Tier{"bogus", TierLow}))
}

func TestEvaluate_EndToEnd(t *testing.T) {
	ev, err := Evaluate(4000, 3000, 24, 36, Thresholds{MinDPI: 100, RecommendedDPI: 150})
	require.NoError(t, err)

	assert.Equal(t, TierAcceptable, ev.Tier)
	assert.Equal(t, 83, ev.Display.Effective)
	assert.Equal(t, "3 feet (across a room)", ev.ViewingDistance.Description)
}

func TestRecommend(t *testing.T) {
	job := Thresholds{MinDPI: 300, RecommendedDPI: 350}
	vd := ViewingDistance{Description: "2.0 feet (arm's length)"}

	assert.Equal(t, "recommendationExcellent", Recommend(TierExcellent, 3.5, 2, job, vd).Key)
	assert.Equal(t, "recommendationGood", Recommend(TierGood, 3.5, 2, job, vd).Key)
	assert.Equal(t, "recommendationLow", Recommend(TierLow, 3.5, 2, job, vd).Key)

	acc := Recommend(TierAcceptable, 3.5, 2, job, vd)
	assert.Equal(t, "2.0 feet (arm's length)", acc.Values["distance"])

	crit := Recommend(TierCritical, 3.5, 2, job, vd)
	assert.Equal(t, "recommendationCritical", crit.Key)
	assert.Equal(t, 1050, crit.Values["width"])
	assert.Equal(t, 600, crit.Values["height"])
}

func TestRequiredPixels(t *testing.T) {
	w, h := RequiredPixels(3.5, 2, 300)
	assert.Equal(t, 1050, w)
	assert.Equal(t, 600, h)

	w, h = RequiredPixels(24, 36, 100.5)
	assert.Equal(t, 2412, w)
	assert.Equal(t, 3618, h)
}

func TestParseTier(t *testing.T) {
	tier, ok := ParseTier(" Critical ")
	assert.True(t, ok)
	assert.Equal(t, TierCritical, tier)

	_, ok = ParseTier("meh")
	assert.False(t, ok)

	assert.True(t, IsValidTier("GOOD"))
	assert.False(t, IsValidTier("none"))

	s, ok := StatusInfo(TierLow)
	assert.True(t, ok)
	assert.Equal(t, "Low Quality", s.Label)
}
