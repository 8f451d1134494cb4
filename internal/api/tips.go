package api

import (
	"net/http"
	"strconv"

	"github.com/local/printssistant/internal/tips"
)

func (s *Server) handleTips(w http.ResponseWriter, r *http.Request) {
	cat := tips.Category(r.URL.Query().Get("category"))
	list := tips.ByCategory(cat)
	if cat != "" && len(list) == 0 {
		writeError(w, r, badRequest("unknown tip category "+string(cat)))
		return
	}
	if r.URL.Query().Get("random") == "true" {
		t, _ := tips.Random(cat, nil)
		writeJSON(w, http.StatusOK, t)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tips": list})
}

// handleRelevantTips picks tips for an image at dpi placed in job.
func (s *Server) handleRelevantTips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	job, err := s.deps.Catalog.ByID(q.Get("job"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	dpi, err := strconv.ParseFloat(q.Get("dpi"), 64)
	if err != nil {
		writeError(w, r, badRequest("dpi must be a number"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id":  job.ID,
		"tips":    tips.Relevant(dpi, job.MinDPI, job.Category.IsLargeFormat()),
		"job_tip": tips.ForJob(job),
	})
}
