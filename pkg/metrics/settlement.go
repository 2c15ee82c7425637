package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics records checkout and payment verification outcomes.
type SettlementMetrics struct {
	duration        *prometheus.HistogramVec
	settled         prometheus.Counter
	failure         *prometheus.CounterVec
	amountMismatch  prometheus.Counter
	settledAmount   prometheus.Counter
	cartLineCleanup *prometheus.CounterVec
}

// NewSettlementMetrics registers the settlement metrics on the provided registerer.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of settlement operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	settled := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_orders_total",
		Help: "Orders settled successfully.",
	})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_failures_total",
		Help: "Settlement attempts rejected, by reason.",
	}, []string{"reason"})
	amountMismatch := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_amount_mismatch_total",
		Help: "Callbacks whose client-reported amount differed from the server quote.",
	})
	settledAmount := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "settlement_amount_krw_total",
		Help: "Total settled amount in KRW.",
	})
	cartLineCleanup := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_cart_cleanup_total",
		Help: "Post-settlement cart line removals, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, settled, failure, amountMismatch, settledAmount, cartLineCleanup)
	return &SettlementMetrics{
		duration:        duration,
		settled:         settled,
		failure:         failure,
		amountMismatch:  amountMismatch,
		settledAmount:   settledAmount,
		cartLineCleanup: cartLineCleanup,
	}
}

// ObserveDuration records the duration for the named settlement operation.
func (s *SettlementMetrics) ObserveDuration(operation string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSettled increments the settled order counter and adds to the amount total.
func (s *SettlementMetrics) IncSettled(amount int) {
	if s == nil || s.settled == nil {
		return
	}
	s.settled.Inc()
	if amount > 0 {
		s.settledAmount.Add(float64(amount))
	}
}

// IncFailure increments the failure counter for the given reason.
func (s *SettlementMetrics) IncFailure(reason string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncAmountMismatch counts a client-reported amount that disagreed with the server quote.
func (s *SettlementMetrics) IncAmountMismatch() {
	if s == nil || s.amountMismatch == nil {
		return
	}
	s.amountMismatch.Inc()
}

// IncCartCleanup counts one post-settlement cart line removal attempt.
func (s *SettlementMetrics) IncCartCleanup(outcome string) {
	if s == nil || s.cartLineCleanup == nil {
		return
	}
	s.cartLineCleanup.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
