// Package pdfcheck inspects an exported print PDF: page sizes against the
// selected preset, and low resolution page previews.
package pdfcheck

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog/log"

	"github.com/local/printssistant/internal/printspec"
)

// PointsPerInch converts PDF user space units.
const PointsPerInch = 72.0

var ErrNoPages = errors.New("pdf has no pages")

// PageSize is one page's media box size in inches. Page is 1-based.
type PageSize struct {
	Page         int     `json:"page"`
	WidthInches  float64 `json:"width_inches"`
	HeightInches float64 `json:"height_inches"`
}

// SizeReader abstracts reading page sizes from PDF bytes.
type SizeReader interface {
	PageSizes(data []byte) ([]PageSize, error)
}

type pdfcpuReader struct{}

func (pdfcpuReader) PageSizes(data []byte) ([]PageSize, error) {
	dims, err := api.PageDims(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("read page sizes: %w", err)
	}
	out := make([]PageSize, len(dims))
	for i, d := range dims {
		out[i] = PageSize{
			Page:         i + 1,
			WidthInches:  d.Width / PointsPerInch,
			HeightInches: d.Height / PointsPerInch,
		}
	}
	return out, nil
}

var defaultReader SizeReader = pdfcpuReader{}

// PageSizes returns the size of every page in data.
func PageSizes(data []byte) ([]PageSize, error) {
	return defaultReader.PageSizes(data)
}

// PageCheck is the size verdict for a single page.
type PageCheck struct {
	PageSize
	Trim      printspec.SizeMatch `json:"trim"`
	WithBleed printspec.SizeMatch `json:"with_bleed"`
}

// Fits is true when the page is either the trim size or the bleed size.
func (p PageCheck) Fits() bool {
	return p.Trim == printspec.SizeMatched || p.WithBleed == printspec.SizeMatched
}

type PagesReport struct {
	JobID    string      `json:"job_id"`
	Pages    []PageCheck `json:"pages"`
	AllMatch bool        `json:"all_match"`
}

// CheckPages compares every page of data against the job's trim size and
// against its trim size plus bleed.
func CheckPages(data []byte, job printspec.PrintJobSpec, tolerance float64) (PagesReport, error) {
	return checkWith(defaultReader, data, job, tolerance)
}

func checkWith(r SizeReader, data []byte, job printspec.PrintJobSpec, tolerance float64) (PagesReport, error) {
	sizes, err := r.PageSizes(data)
	if err != nil {
		return PagesReport{}, err
	}
	if len(sizes) == 0 {
		return PagesReport{}, ErrNoPages
	}

	rep := PagesReport{JobID: job.ID, AllMatch: true}
	for _, s := range sizes {
		pc := PageCheck{
			PageSize:  s,
			Trim:      printspec.CompareInches(s.WidthInches, s.HeightInches, job, tolerance),
			WithBleed: printspec.CompareWithBleed(s.WidthInches, s.HeightInches, job, tolerance),
		}
		if !pc.Fits() {
			rep.AllMatch = false
			log.Debug().
				Int("page", s.Page).
				Float64("width_in", s.WidthInches).
				Float64("height_in", s.HeightInches).
				Str("job", job.ID).
				Msg("pdf page does not match job size")
		}
		rep.Pages = append(rep.Pages, pc)
	}
	return rep, nil
}
