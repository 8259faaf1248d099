package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records session lifecycle and charge outcome counters.
type CheckoutMetrics struct {
	sessions         *prometheus.CounterVec
	chargeOutcomes   *prometheus.CounterVec
	completeDuration prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op collector set.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	sessions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_sessions_total",
		Help: "Checkout session lifecycle events by kind.",
	}, []string{"event"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_charge_outcomes_total",
		Help: "Charge attempts by processor outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_complete_duration_seconds",
		Help:    "Duration of the complete operation including the charge call.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(sessions, outcomes, duration)
	return &CheckoutMetrics{
		sessions:         sessions,
		chargeOutcomes:   outcomes,
		completeDuration: duration,
	}
}

// IncSession counts a lifecycle event (created, completed, canceled).
func (c *CheckoutMetrics) IncSession(event string) {
	if c == nil || c.sessions == nil {
		return
	}
	c.sessions.WithLabelValues(normalizeLabel(event)).Inc()
}

// IncChargeOutcome counts a processor outcome (succeeded, declined, requires_action, error).
func (c *CheckoutMetrics) IncChargeOutcome(outcome string) {
	if c == nil || c.chargeOutcomes == nil {
		return
	}
	c.chargeOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveCompleteDuration records the wall time of a complete call.
func (c *CheckoutMetrics) ObserveCompleteDuration(duration time.Duration) {
	if c == nil || c.completeDuration == nil {
		return
	}
	c.completeDuration.Observe(duration.Seconds())
}

func normalizeLabel(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}
