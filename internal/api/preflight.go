package api

import (
	"net/http"

	"github.com/local/printssistant/internal/preflight"
	"github.com/local/printssistant/internal/printspec"
)

// checklistReq applies Reset, then Complete, then Toggle to Checks, or to a
// fresh default list when Checks is empty.
type checklistReq struct {
	Checks   []preflight.Check `json:"checks"`
	Reset    bool              `json:"reset"`
	Complete []string          `json:"complete"`
	Toggle   []string          `json:"toggle"`
}

type checklistResp struct {
	preflight.Checklist
	Progress       int  `json:"progress"`
	ReadyForExport bool `json:"ready_for_export"`
}

func (s *Server) handleChecklist(w http.ResponseWriter, r *http.Request) {
	var req checklistReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cl := preflight.NewChecklist()
	if len(req.Checks) > 0 {
		cl = preflight.Checklist{Checks: req.Checks}
	}
	if req.Reset {
		cl = cl.Reset()
	}
	var err error
	for _, id := range req.Complete {
		if cl, err = cl.Complete(id); err != nil {
			writeError(w, r, err)
			return
		}
	}
	for _, id := range req.Toggle {
		if cl, err = cl.Toggle(id); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, checklistResp{Checklist: cl, Progress: cl.Progress(), ReadyForExport: cl.ReadyForExport()})
}

type marginsReq struct {
	JobID            string              `json:"job_id"`
	PageWidthPx      float64             `json:"page_width_px"`
	PageHeightPx     float64             `json:"page_height_px"`
	SafeMarginInches float64             `json:"safe_margin_inches"`
	Elements         []preflight.Element `json:"elements"`
}

// handleMargins takes the safe margin from the job unless one is given.
func (s *Server) handleMargins(w http.ResponseWriter, r *http.Request) {
	var req marginsReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	margin := req.SafeMarginInches
	if req.JobID != "" {
		job, err := s.deps.Catalog.ByID(req.JobID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if margin == 0 {
			margin = job.SafeMarginInches
		}
	}
	page := printspec.PageFromPixels(req.PageWidthPx, req.PageHeightPx)
	issues := preflight.CheckMargins(page, req.Elements, margin)
	if issues == nil {
		issues = []preflight.Issue{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"issues": issues, "ok": len(issues) == 0})
}
