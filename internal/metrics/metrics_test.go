package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestWizardMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWizardMetrics(reg)

	m.ObserveFieldUpdate("email")
	m.ObserveDaySelection(true)
	m.ObserveDaySelection(false)
	m.ObserveDaySelection(false)
	m.ObserveTimeSelection(true)
	m.ObserveStepTransition("personal", "passport", true)
	m.ObserveSubmission("submitted")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.daySelections.WithLabelValues("rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fieldUpdates.WithLabelValues("email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stepTransitions.WithLabelValues("personal", "passport", "accepted")))
}

func TestWizardMetricsNilSafe(t *testing.T) {
	var m *WizardMetrics
	assert.NotPanics(t, func() {
		m.ObserveFieldUpdate("email")
		m.ObserveDaySelection(true)
		m.ObserveTimeSelection(false)
		m.ObserveStepTransition("travel", "review", false)
		m.ObserveSubmission("rate_limited")
	})
}

func TestHTTPMetricsObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("POST", "200", 15*time.Millisecond)
	m.ObserveRequest("POST", "200", 30*time.Millisecond)
	m.ObserveRequest("GET", "404", time.Millisecond)

	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))

	var nilMetrics *HTTPMetrics
	assert.NotPanics(t, func() { nilMetrics.ObserveRequest("GET", "200", time.Millisecond) })
}
