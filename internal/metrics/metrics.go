package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	evaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printssistant",
			Name:      "dpi_evaluations_total",
			Help:      "DPI evaluations by job category and resulting tier",
		},
		[]string{"category", "tier"},
	)

	analysisImages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printssistant",
			Name:      "analysis_images_total",
			Help:      "Images seen by the analysis runner by result (ok, fetch_error, probe_error, invalid)",
		},
		[]string{"result"},
	)

	analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "printssistant",
			Name:      "analysis_duration_seconds",
			Help:      "Wall time of a full multi-image analysis",
			Buckets:   prometheus.DefBuckets,
		},
	)

	staleRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "printssistant",
			Name:      "stale_requests_total",
			Help:      "Analyses discarded because a newer request superseded them",
		},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "printssistant",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by route, method and status code",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method", "code"},
	)

	archives = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "printssistant",
			Name:      "report_archives_total",
			Help:      "Report archive uploads by result",
		},
		[]string{"result"},
	)

	initOnce sync.Once
)

// Init registers collectors. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(evaluations, analysisImages, analysisDuration, staleRequests, httpDuration, archives)
	})
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func IncEvaluation(category, tier string) { evaluations.WithLabelValues(category, tier).Inc() }
func IncImage(result string)              { analysisImages.WithLabelValues(result).Inc() }
func ObserveAnalysis(d time.Duration)     { analysisDuration.Observe(d.Seconds()) }
func IncStale()                           { staleRequests.Inc() }
func IncArchive(ok bool) {
	if ok {
		archives.WithLabelValues("ok").Inc()
		return
	}
	archives.WithLabelValues("error").Inc()
}

func ObserveHTTP(route, method string, code int, d time.Duration) {
	httpDuration.WithLabelValues(route, method, strconv.Itoa(code)).Observe(d.Seconds())
}
