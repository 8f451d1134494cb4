package api

import (
	"net/http"

	"github.com/local/printssistant/internal/printspec"
	"github.com/local/printssistant/internal/quality"
	"github.com/local/printssistant/internal/tips"
)

type jobView struct {
	printspec.PrintJobSpec
	BleedWidthInches  float64      `json:"bleed_width_inches"`
	BleedHeightInches float64      `json:"bleed_height_inches"`
	Tip               tips.Message `json:"tip"`
}

func viewOf(j printspec.PrintJobSpec) jobView {
	return jobView{
		PrintJobSpec:      j,
		BleedWidthInches:  j.BleedWidthInches(),
		BleedHeightInches: j.BleedHeightInches(),
		Tip:               tips.ForJob(j),
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"categories": s.deps.Catalog.Categories()})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	var jobs []printspec.PrintJobSpec
	if c := r.URL.Query().Get("category"); c != "" {
		cat := printspec.Category(c)
		if !cat.IsValid() {
			writeError(w, r, badRequest("unknown category "+c))
			return
		}
		jobs = s.deps.Catalog.ByCategory(cat)
	} else {
		jobs = s.deps.Catalog.Jobs()
	}
	out := make([]jobView, len(jobs))
	for i, j := range jobs {
		out[i] = viewOf(j)
	}
	writeJSON(w, http.StatusOK, map[string]any{"version": s.deps.Catalog.Version(), "jobs": out})
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.deps.Catalog.ByID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(job))
}

func (s *Server) handleGuides(w http.ResponseWriter, r *http.Request) {
	job, err := s.deps.Catalog.ByID(r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"job_id": job.ID, "guides": printspec.Guides(job)})
}

type sizeMatchReq struct {
	JobID        string  `json:"job_id"`
	WidthPx      float64 `json:"width_px"`
	HeightPx     float64 `json:"height_px"`
	WidthInches  float64 `json:"width_inches"`
	HeightInches float64 `json:"height_inches"`
	Tolerance    float64 `json:"tolerance"`
}

type sizeMatchResp struct {
	JobID     string                   `json:"job_id"`
	Page      printspec.PageDimensions `json:"page"`
	Trim      printspec.SizeMatch      `json:"trim"`
	WithBleed printspec.SizeMatch      `json:"with_bleed"`
}

// handleSizeMatch accepts the page either in editor pixels or in inches.
func (s *Server) handleSizeMatch(w http.ResponseWriter, r *http.Request) {
	var req sizeMatchReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	job, err := s.deps.Catalog.ByID(req.JobID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tol := req.Tolerance
	if tol <= 0 {
		tol = s.deps.SizeTolerance
	}

	var page printspec.PageDimensions
	switch {
	case req.WidthPx != 0 || req.HeightPx != 0:
		page = printspec.PageFromPixels(req.WidthPx, req.HeightPx)
	default:
		page = printspec.PageDimensions{
			WidthPx:      printspec.InchesToPixels(req.WidthInches),
			HeightPx:     printspec.InchesToPixels(req.HeightInches),
			WidthInches:  req.WidthInches,
			HeightInches: req.HeightInches,
		}
	}
	if !page.Valid() {
		derr := &quality.DimensionError{Field: "width", Value: page.WidthPx}
		if page.WidthPx > 0 {
			derr = &quality.DimensionError{Field: "height", Value: page.HeightPx}
		}
		writeError(w, r, derr)
		return
	}

	writeJSON(w, http.StatusOK, sizeMatchResp{
		JobID:     job.ID,
		Page:      page,
		Trim:      printspec.CompareSize(page, job, tol),
		WithBleed: printspec.CompareWithBleed(page.WidthInches, page.HeightInches, job, tol),
	})
}
