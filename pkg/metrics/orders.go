package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records submission outcomes for the order pipeline.
type OrderMetrics struct {
	duration        *prometheus.HistogramVec
	success         *prometheus.CounterVec
	failure         *prometheus.CounterVec
	notifyFailures  prometheus.Counter
	referralCreated prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_submission_duration_seconds",
		Help:    "Duration of order submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submission_success",
		Help: "Committed order submissions.",
	}, []string{"referred"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_submission_failure",
		Help: "Rolled back order submissions.",
	}, []string{"reason"})
	notifyFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_notification_failure",
		Help: "Order notifications that could not be delivered.",
	})
	referralCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "affiliate_referral_created",
		Help: "Affiliate referrals recorded alongside orders.",
	})
	reg.MustRegister(duration, success, failure, notifyFailures, referralCreated)
	return &OrderMetrics{
		duration:        duration,
		success:         success,
		failure:         failure,
		notifyFailures:  notifyFailures,
		referralCreated: referralCreated,
	}
}

// ObserveDuration records how long a submission took for the given outcome.
func (o *OrderMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if o == nil || o.duration == nil {
		return
	}
	o.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter; referred marks attributed orders.
func (o *OrderMetrics) IncSuccess(referred bool) {
	if o == nil || o.success == nil {
		return
	}
	label := "no"
	if referred {
		label = "yes"
	}
	o.success.WithLabelValues(label).Inc()
}

// IncFailure increments the failure counter for the named reason.
func (o *OrderMetrics) IncFailure(reason string) {
	if o == nil || o.failure == nil {
		return
	}
	o.failure.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncNotifyFailure increments the notification failure counter.
func (o *OrderMetrics) IncNotifyFailure() {
	if o == nil || o.notifyFailures == nil {
		return
	}
	o.notifyFailures.Inc()
}

// IncReferralCreated increments the referral counter.
func (o *OrderMetrics) IncReferralCreated() {
	if o == nil || o.referralCreated == nil {
		return
	}
	o.referralCreated.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
