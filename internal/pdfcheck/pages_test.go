package pdfcheck

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/printssistant/internal/printspec"
)

type fakeReader struct {
	sizes []PageSize
	err   error
}

func (f fakeReader) PageSizes([]byte) ([]PageSize, error) { return f.sizes, f.err }

func TestCheckPages(t *testing.T) {
	card, err := printspec.Default().ByID("biz_card_us")
	require.NoError(t, err)

	r := fakeReader{sizes: []PageSize{
		{Page: 1, WidthInches: 3.5, HeightInches: 2},
		{Page: 2, WidthInches: 2.25, HeightInches: 3.75},
	}}
	rep, err := checkWith(r, nil, card, 0)
	require.NoError(t, err)

	require.Len(t, rep.Pages, 2)
	assert.Equal(t, "biz_card_us", rep.JobID)
	assert.True(t, rep.AllMatch)

	assert.Equal(t, printspec.SizeMatched, rep.Pages[0].Trim)
	assert.Equal(t, printspec.SizeMismatch, rep.Pages[0].WithBleed)
	assert.Equal(t, printspec.SizeMismatch, rep.Pages[1].Trim)
	assert.Equal(t, printspec.SizeMatched, rep.Pages[1].WithBleed)
}

func TestCheckPages_Mismatch(t *testing.T) {
	card, err := printspec.Default().ByID("biz_card_us")
	require.NoError(t, err)

	rep, err := checkWith(fakeReader{sizes: []PageSize{
		{Page: 1, WidthInches: 8.5, HeightInches: 11},
	}}, nil, card, 0)
	require.NoError(t, err)
	assert.False(t, rep.AllMatch)
	assert.False(t, rep.Pages[0].Fits())
}

func TestCheckPages_Errors(t *testing.T) {
	card, err := printspec.Default().ByID("biz_card_us")
	require.NoError(t, err)

	_, err = checkWith(fakeReader{}, nil, card, 0)
	assert.True(t, errors.Is(err, ErrNoPages))

	boom := errors.New("boom")
	_, err = checkWith(fakeReader{err: boom}, nil, card, 0)
	assert.True(t, errors.Is(err, boom))
}

func TestPageSizes_RejectsGarbage(t *testing.T) {
	_, err := PageSizes([]byte("not a pdf"))
	assert.Error(t, err)
}

func TestRenderPreview_RejectsGarbage(t *testing.T) {
	_, err := RenderPreview([]byte("not a pdf"), 1, 72, 80, ColorRGB)
	assert.Error(t, err)
}

// testdata/card.pdf has two pages: 252x144 pt and 162x270 pt.
func cardPDF(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/card.pdf")
	require.NoError(t, err)
	return data
}

func TestPageSizes_ConvertsPointsToInches(t *testing.T) {
	sizes, err := PageSizes(cardPDF(t))
	require.NoError(t, err)
	require.Len(t, sizes, 2)

	assert.Equal(t, 1, sizes[0].Page)
	assert.InDelta(t, 3.5, sizes[0].WidthInches, 1e-9)
	assert.InDelta(t, 2.0, sizes[0].HeightInches, 1e-9)
	assert.Equal(t, 2, sizes[1].Page)
	assert.InDelta(t, 2.25, sizes[1].WidthInches, 1e-9)
	assert.InDelta(t, 3.75, sizes[1].HeightInches, 1e-9)
}

func TestCheckPages_RealPDF(t *testing.T) {
	card, err := printspec.Default().ByID("biz_card_us")
	require.NoError(t, err)

	rep, err := CheckPages(cardPDF(t), card, 0)
	require.NoError(t, err)
	require.Len(t, rep.Pages, 2)
	assert.True(t, rep.AllMatch)
	assert.Equal(t, printspec.SizeMatched, rep.Pages[0].Trim)
	assert.Equal(t, printspec.SizeMatched, rep.Pages[1].WithBleed)
}

func TestRenderPreview(t *testing.T) {
	data := cardPDF(t)

	pv, err := RenderPreview(data, 1, 72, 80, ColorRGB)
	require.NoError(t, err)
	assert.Equal(t, 1, pv.Page)
	assert.Equal(t, 72, pv.DPI)
	assert.InDelta(t, 252, pv.Width, 1)
	assert.InDelta(t, 144, pv.Height, 1)

	img, err := jpeg.Decode(bytes.NewReader(pv.JPEG))
	require.NoError(t, err)
	assert.IsType(t, &image.YCbCr{}, img)
}

func TestRenderPreview_Gray(t *testing.T) {
	pv, err := RenderPreview(cardPDF(t), 2, 36, 80, ColorGray)
	require.NoError(t, err)
	assert.InDelta(t, 81, pv.Width, 1)
	assert.InDelta(t, 135, pv.Height, 1)

	img, err := jpeg.Decode(bytes.NewReader(pv.JPEG))
	require.NoError(t, err)
	assert.IsType(t, &image.Gray{}, img)
}

func TestRenderPreview_PageRange(t *testing.T) {
	data := cardPDF(t)
	for _, page := range []int{0, 3} {
		_, err := RenderPreview(data, page, 72, 80, ColorRGB)
		assert.ErrorIs(t, err, ErrPageRange, "page %d", page)
	}
}

func TestRenderPreview_DPICeiling(t *testing.T) {
	_, err := RenderPreview(cardPDF(t), 1, MaxPreviewDPI+1, 80, ColorRGB)
	assert.ErrorIs(t, err, ErrPreviewDPI)

	_, err = RenderPreview(cardPDF(t), 1, MaxPreviewDPI, 80, ColorRGB)
	assert.NoError(t, err)
}
