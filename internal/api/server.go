// Package api exposes the preflight service over HTTP.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/local/printssistant/internal/analysis"
	"github.com/local/printssistant/internal/metrics"
	"github.com/local/printssistant/internal/printspec"
	"github.com/local/printssistant/internal/statuscheck"
	"github.com/local/printssistant/internal/store"
)

// Analyzer runs a batch image analysis.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (analysis.Report, error)
}

// Archiver uploads finished reports. A disabled archiver returns
// storage.ErrArchiveDisabled.
type Archiver interface {
	Enabled() bool
	PutReport(ctx context.Context, key string, body []byte) (string, error)
}

type StatusChecker interface {
	Summary(ctx context.Context) statuscheck.Summary
}

type Dependencies struct {
	Catalog  *printspec.Catalog
	Analyzer Analyzer
	Results  store.ResultStore
	Archive  Archiver
	Status   StatusChecker

	SizeTolerance float64
	APIKeyHash    string
	MaxBodyBytes  int64
}

type Server struct {
	deps Dependencies
}

func New(deps Dependencies) *Server {
	if deps.Catalog == nil {
		deps.Catalog = printspec.Default()
	}
	return &Server{deps: deps}
}

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /status", s.handleStatus)

	mux.HandleFunc("GET /v1/categories", s.handleCategories)
	mux.HandleFunc("GET /v1/jobs", s.handleJobs)
	mux.HandleFunc("GET /v1/jobs/{id}", s.handleJob)
	mux.HandleFunc("GET /v1/jobs/{id}/guides", s.handleGuides)
	mux.HandleFunc("POST /v1/size-match", s.handleSizeMatch)

	mux.HandleFunc("POST /v1/dpi", s.handleDPI)
	mux.HandleFunc("GET /v1/viewing-distance", s.handleViewingDistance)
	mux.HandleFunc("POST /v1/aggregate", s.handleAggregate)

	mux.HandleFunc("POST /v1/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /v1/analyses/{id}", s.handleGetAnalysis)
	mux.HandleFunc("POST /v1/analyses/{id}/archive", s.handleArchive)

	mux.HandleFunc("GET /v1/tips", s.handleTips)
	mux.HandleFunc("GET /v1/tips/relevant", s.handleRelevantTips)

	mux.HandleFunc("POST /v1/checklist", s.handleChecklist)
	mux.HandleFunc("POST /v1/margins", s.handleMargins)

	mux.HandleFunc("POST /v1/pdf/check", s.handlePDFCheck)
	mux.HandleFunc("POST /v1/pdf/preview", s.handlePDFPreview)
}

// Handler returns the full middleware chain around a fresh mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	open := map[string]bool{"/health": true, "/metrics": true}
	return requestLog(requireAPIKey(s.deps.APIKeyHash, open, limitBody(s.deps.MaxBodyBytes, mux)))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.deps.Status == nil {
		writeJSON(w, http.StatusOK, map[string]any{"healthy": true})
		return
	}
	sum := s.deps.Status.Summary(r.Context())
	code := http.StatusOK
	if !sum.Healthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{"healthy": sum.Healthy(), "services": sum})
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if statusFor(err) == http.StatusRequestEntityTooLarge {
			return err
		}
		return fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return nil
}
