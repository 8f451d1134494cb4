package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/local/printssistant/internal/analysis"
	"github.com/local/printssistant/internal/logger"
	"github.com/local/printssistant/internal/metrics"
	"github.com/local/printssistant/internal/storage"
)

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analysis.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rep, err := s.deps.Analyzer.Analyze(r.Context(), req)
	if err != nil {
		// Superseded results are discarded, never stored.
		if errors.Is(err, analysis.ErrStaleRequest) {
			logger.FromContext(r.Context()).Info().
				Str("session", req.Session).
				Int64("sequence", rep.Sequence).
				Msg("dropping superseded analysis")
		}
		writeError(w, r, err)
		return
	}

	if s.deps.Results != nil {
		if err := s.deps.Results.Save(r.Context(), rep); err != nil {
			// The caller still gets the report; only later lookups miss.
			logger.FromContext(r.Context()).Warn().Err(err).Str("analysis_id", rep.ID).Msg("failed to cache analysis")
		}
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) lookup(r *http.Request) (analysis.Report, error) {
	id := r.PathValue("id")
	if s.deps.Results == nil {
		return analysis.Report{}, fmt.Errorf("analysis %s: %w", id, errNotFound)
	}
	rep, ok, err := s.deps.Results.Get(r.Context(), id)
	if err != nil {
		return analysis.Report{}, err
	}
	if !ok {
		return analysis.Report{}, fmt.Errorf("analysis %s: %w", id, errNotFound)
	}
	return rep, nil
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	rep, err := s.lookup(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.deps.Archive == nil || !s.deps.Archive.Enabled() {
		writeError(w, r, storage.ErrArchiveDisabled)
		return
	}
	rep, err := s.lookup(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		writeError(w, r, err)
		return
	}
	loc, err := s.deps.Archive.PutReport(r.Context(), rep.JobID+"/"+rep.ID, body)
	metrics.IncArchive(err == nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": rep.ID, "location": loc})
}
