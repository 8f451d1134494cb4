package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/printssistant/internal/preflight"
	"github.com/local/printssistant/internal/printspec"
	"github.com/local/printssistant/internal/quality"
)

type mapFetcher struct {
	assets map[string][]byte
	calls  atomic.Int32
}

func (m *mapFetcher) Fetch(_ context.Context, ref string) ([]byte, error) {
	m.calls.Add(1)
	if b, ok := m.assets[ref]; ok {
		return b, nil
	}
	return nil, errors.New("not found")
}

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func TestAnalyze_PixelSizesOnly(t *testing.T) {
	a := New(Options{})

	rep, err := a.Analyze(context.Background(), Request{
		JobID: "poster_24x36",
		Images: []ImageInput{
			{Name: "hero", PixelWidth: 4000, PixelHeight: 3000},
			{Name: "sharp", PixelWidth: 3600, PixelHeight: 5400},
		},
	})
	require.NoError(t, err)

	require.Len(t, rep.Results, 2)
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, "poster_24x36", rep.JobID)

	hero := rep.Results[0]
	assert.Equal(t, 24.0, hero.PlacedWidthInches)
	assert.Equal(t, 36.0, hero.PlacedHeightInches)
	assert.Equal(t, quality.TierAcceptable, hero.Tier)
	assert.Equal(t, 83, hero.Evaluation.Display.Effective)
	assert.Equal(t, "recommendationAcceptable", hero.Recommendation.Key)
	assert.Equal(t, 3600, hero.RequiredWidth)
	assert.Equal(t, 5400, hero.RequiredHeight)

	assert.Equal(t, quality.TierExcellent, rep.Results[1].Tier)
	assert.Equal(t, quality.TierAcceptable, rep.Overall)
	assert.Equal(t, "Acceptable", rep.OverallStatus.Label)
	assert.False(t, rep.AllPassing)
	assert.Empty(t, rep.Error)
	assert.Equal(t, "largeTip", rep.JobTip.Key)

	var tipIDs []string
	for _, tp := range rep.Tips {
		tipIDs = append(tipIDs, tp.ID)
	}
	assert.Equal(t, []string{"large_format_myth", "banner_dpi", "viewing_distance", "web_images", "zoom_test", "phone_photos"}, tipIDs)
}

func TestAnalyze_FetchesAndSkipsFailures(t *testing.T) {
	f := &mapFetcher{assets: map[string][]byte{
		"s3://assets/card.png": pngOf(t, 1050, 600),
		"s3://assets/logo.svg": []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`),
		"s3://assets/notes":    []byte("hello there"),
	}}
	a := New(Options{Fetcher: f, Concurrency: 2})

	rep, err := a.Analyze(context.Background(), Request{
		JobID: "biz_card_us",
		Images: []ImageInput{
			{Ref: "s3://assets/card.png"},
			{Ref: "s3://assets/missing.png"},
			{Ref: "s3://assets/logo.svg"},
			{Ref: "s3://assets/notes"},
			{Name: "empty"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int32(4), f.calls.Load())

	require.Len(t, rep.Results, 2)
	assert.Equal(t, 0, rep.Results[0].Index)
	assert.Equal(t, 1050, rep.Results[0].PixelWidth)
	assert.InDelta(t, 0.63, rep.Results[0].Megapixels, 1e-9)
	assert.Equal(t, quality.TierGood, rep.Results[0].Tier)

	assert.Equal(t, 2, rep.Results[1].Index)
	assert.True(t, rep.Results[1].ResolutionIndependent)
	assert.Equal(t, quality.TierExcellent, rep.Results[1].Tier)

	require.Len(t, rep.Failed, 3)
	assert.Equal(t, []int{1, 3, 4}, []int{rep.Failed[0].Index, rep.Failed[1].Index, rep.Failed[2].Index})
	assert.Equal(t, quality.TierGood, rep.Overall)
	assert.True(t, rep.AllPassing)
}

func TestAnalyze_AllFailedIsNone(t *testing.T) {
	a := New(Options{Fetcher: &mapFetcher{}})

	rep, err := a.Analyze(context.Background(), Request{
		JobID:  "flyer_letter",
		Images: []ImageInput{{Ref: "https://example.com/gone.jpg"}},
	})
	require.NoError(t, err)
	assert.NotNil(t, rep.Results)
	assert.Empty(t, rep.Results)
	assert.Len(t, rep.Failed, 1)
	assert.Equal(t, quality.TierNone, rep.Overall)
	assert.Equal(t, "Not Checked", rep.OverallStatus.Label)
	assert.False(t, rep.AllPassing)
	assert.Equal(t, "Could not analyze selected images", rep.Error)

	raw, err := json.Marshal(rep)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"results":[]`)
}

func TestAnalyze_InvalidPlacedSizeIsRecorded(t *testing.T) {
	rep, err := New(Options{}).Analyze(context.Background(), Request{
		JobID:  "flyer_letter",
		Images: []ImageInput{{PixelWidth: 100, PixelHeight: 100, PlacedWidthInches: -2, PlacedHeightInches: 3}},
	})
	require.NoError(t, err)
	require.Len(t, rep.Failed, 1)
	assert.Contains(t, rep.Failed[0].Reason, quality.ErrInvalidDimension.Error())
}

func TestAnalyze_RequestErrors(t *testing.T) {
	a := New(Options{MaxImages: 1})
	ctx := context.Background()

	_, err := a.Analyze(ctx, Request{JobID: "napkin", Images: []ImageInput{{PixelWidth: 1, PixelHeight: 1}}})
	assert.True(t, errors.Is(err, printspec.ErrUnknownJob))

	_, err = a.Analyze(ctx, Request{JobID: "flyer_letter"})
	assert.True(t, errors.Is(err, ErrNoImages))

	_, err = a.Analyze(ctx, Request{JobID: "flyer_letter", Images: make([]ImageInput, 2)})
	assert.True(t, errors.Is(err, ErrTooManyImages))
}

func TestAnalyze_StaleRequest(t *testing.T) {
	seq := preflight.NewMemorySequencer()
	a := New(Options{Sequencer: seq})
	ctx := context.Background()

	first, err := seq.Next(ctx, "design-1")
	require.NoError(t, err)
	_, err = seq.Next(ctx, "design-1")
	require.NoError(t, err)

	rep, err := a.Analyze(ctx, Request{
		JobID:    "flyer_letter",
		Session:  "design-1",
		Sequence: first,
		Images:   []ImageInput{{PixelWidth: 2550, PixelHeight: 3300}},
	})
	assert.True(t, errors.Is(err, ErrStaleRequest))
	assert.Len(t, rep.Results, 1)

	rep, err = a.Analyze(ctx, Request{
		JobID:   "flyer_letter",
		Session: "design-1",
		Images:  []ImageInput{{PixelWidth: 2550, PixelHeight: 3300}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), rep.Sequence)
	assert.Equal(t, quality.TierExcellent, rep.Overall)
}
