package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	Init()
	Init()

	before := testutil.ToFloat64(evaluations.WithLabelValues("large", "good"))
	IncEvaluation("large", "good")
	assert.Equal(t, before+1, testutil.ToFloat64(evaluations.WithLabelValues("large", "good")))

	beforeStale := testutil.ToFloat64(staleRequests)
	IncStale()
	assert.Equal(t, beforeStale+1, testutil.ToFloat64(staleRequests))

	beforeErr := testutil.ToFloat64(archives.WithLabelValues("error"))
	IncArchive(false)
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(archives.WithLabelValues("error")))
}

func TestHandler_ExposesNamespace(t *testing.T) {
	Init()
	IncImage("ok")
	ObserveAnalysis(20 * time.Millisecond)
	ObserveHTTP("/v1/dpi", "POST", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "printssistant_analysis_images_total")
	assert.Contains(t, string(body), "printssistant_http_request_duration_seconds")
}
