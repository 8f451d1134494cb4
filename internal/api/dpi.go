package api

import (
	"net/http"
	"strconv"

	"github.com/local/printssistant/internal/metrics"
	"github.com/local/printssistant/internal/quality"
)

// dpiReq evaluates one image either against a catalog job or against ad hoc
// thresholds when JobID is empty.
type dpiReq struct {
	JobID              string  `json:"job_id"`
	MinDPI             float64 `json:"min_dpi"`
	RecommendedDPI     float64 `json:"recommended_dpi"`
	PixelWidth         int     `json:"pixel_width"`
	PixelHeight        int     `json:"pixel_height"`
	PlacedWidthInches  float64 `json:"placed_width_inches"`
	PlacedHeightInches float64 `json:"placed_height_inches"`
}

type dpiResp struct {
	quality.DPIEvaluation
	Status         quality.Status         `json:"status"`
	Recommendation quality.Recommendation `json:"recommendation"`
	RequiredWidth  int                    `json:"required_width"`
	RequiredHeight int                    `json:"required_height"`
}

func (s *Server) handleDPI(w http.ResponseWriter, r *http.Request) {
	var req dpiReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	if req.RecommendedDPI == 0 {
		req.RecommendedDPI = req.MinDPI
	}
	adhoc := quality.Thresholds{MinDPI: req.MinDPI, RecommendedDPI: req.RecommendedDPI}
	var job quality.Job = adhoc
	category := "custom"
	if req.JobID == "" {
		if err := adhoc.Validate(); err != nil {
			writeError(w, r, err)
			return
		}
	} else {
		spec, err := s.deps.Catalog.ByID(req.JobID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		job, category = spec, string(spec.Category)
		if req.PlacedWidthInches == 0 && req.PlacedHeightInches == 0 {
			req.PlacedWidthInches, req.PlacedHeightInches = spec.WidthInches, spec.HeightInches
		}
	}

	ev, err := quality.Evaluate(req.PixelWidth, req.PixelHeight, req.PlacedWidthInches, req.PlacedHeightInches, job)
	if err != nil {
		writeError(w, r, err)
		return
	}
	metrics.IncEvaluation(category, string(ev.Tier))

	resp := dpiResp{
		DPIEvaluation:  ev,
		Recommendation: quality.Recommend(ev.Tier, req.PlacedWidthInches, req.PlacedHeightInches, job, ev.ViewingDistance),
	}
	resp.Status, _ = quality.StatusInfo(ev.Tier)
	resp.RequiredWidth, resp.RequiredHeight = quality.RequiredPixels(req.PlacedWidthInches, req.PlacedHeightInches, job.RecommendedMinimumDPI())
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleViewingDistance(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("dpi")
	dpi, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeError(w, r, badRequest("dpi must be a number"))
		return
	}
	vd, err := quality.EstimateMinimumViewingDistance(dpi)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vd)
}

type aggregateReq struct {
	Tiers []string `json:"tiers"`
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	var req aggregateReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	tiers := make([]quality.Tier, 0, len(req.Tiers))
	for _, name := range req.Tiers {
		t, ok := quality.ParseTier(name)
		if !ok || t == quality.TierNone {
			writeError(w, r, badRequest("unknown tier "+strconv.Quote(name)))
			return
		}
		tiers = append(tiers, t)
	}
	overall := quality.AggregateOverallStatus(tiers)
	st, _ := quality.StatusInfo(overall)
	writeJSON(w, http.StatusOK, map[string]any{"overall": overall, "status": st})
}
