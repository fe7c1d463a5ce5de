package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveForecast(t *testing.T) {
	m := New()
	m.ObserveForecast(SourceFallback)
	m.ObserveForecast(SourceFallback)
	m.ObserveForecast(SourceModel)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.forecastRequests.WithLabelValues(SourceFallback)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.forecastRequests.WithLabelValues(SourceModel)))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveForecast(SourceModel)
		m.ObserveApproval(ApprovalApproved)
		m.SetModelsLoaded(3)
		m.ObserveHTTP("GET", "/api/health", 200, time.Millisecond)
	})
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveApproval(ApprovalConflict)
	m.SetModelsLoaded(4)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `transfer_approvals_total{outcome="conflict"} 1`))
	assert.True(t, strings.Contains(body, "forecast_models_loaded 4"))
}
