// Package metrics exposes Prometheus counters for booking wizard interactions.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// WizardMetrics counts field edits, calendar clicks, step moves and submissions.
type WizardMetrics struct {
	fieldUpdates    *prometheus.CounterVec
	daySelections   *prometheus.CounterVec
	timeSelections  *prometheus.CounterVec
	stepTransitions *prometheus.CounterVec
	submissions     *prometheus.CounterVec
}

func NewWizardMetrics(reg prometheus.Registerer) *WizardMetrics {
	m := &WizardMetrics{
		fieldUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vistos",
			Subsystem: "wizard",
			Name:      "field_updates_total",
			Help:      "Form field edits applied to booking drafts",
		}, []string{"field"}),
		daySelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vistos",
			Subsystem: "wizard",
			Name:      "day_selections_total",
			Help:      "Calendar day clicks by outcome",
		}, []string{"result"}),
		timeSelections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vistos",
			Subsystem: "wizard",
			Name:      "time_selections_total",
			Help:      "Time slot clicks by outcome",
		}, []string{"result"}),
		stepTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vistos",
			Subsystem: "wizard",
			Name:      "step_transitions_total",
			Help:      "Wizard navigation attempts",
		}, []string{"from", "to", "result"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "vistos",
			Subsystem: "wizard",
			Name:      "submissions_total",
			Help:      "Booking submissions by outcome",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.fieldUpdates, m.daySelections, m.timeSelections, m.stepTransitions, m.submissions)
	return m
}

func (m *WizardMetrics) ObserveFieldUpdate(field string) {
	if m == nil {
		return
	}
	m.fieldUpdates.WithLabelValues(field).Inc()
}

func (m *WizardMetrics) ObserveDaySelection(accepted bool) {
	if m == nil {
		return
	}
	m.daySelections.WithLabelValues(outcome(accepted)).Inc()
}

func (m *WizardMetrics) ObserveTimeSelection(accepted bool) {
	if m == nil {
		return
	}
	m.timeSelections.WithLabelValues(outcome(accepted)).Inc()
}

func (m *WizardMetrics) ObserveStepTransition(from, to string, accepted bool) {
	if m == nil {
		return
	}
	m.stepTransitions.WithLabelValues(from, to, outcome(accepted)).Inc()
}

func (m *WizardMetrics) ObserveSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

func outcome(accepted bool) string {
	if accepted {
		return "accepted"
	}
	return "rejected"
}
