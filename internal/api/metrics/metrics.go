// Package metrics defines and registers all custom Prometheus metrics for the
// booking API. It is the single source of truth for metric names, labels, and
// help strings. Metrics are registered with the default registry at import
// time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "booking"

// ── Slot lock metrics ─────────────────────────────────────────────────────────

// LocksAcquiredTotal counts lock acquisition attempts.
// Label:
//   - result: "acquired", "conflict" (live lock already exists), or "error"
var LocksAcquiredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "locks_acquired_total",
		Help:      "Total number of slot lock acquisition attempts, by result.",
	},
	[]string{"result"},
)

// ── OTP metrics ───────────────────────────────────────────────────────────────

// OTPIssuedTotal counts OTP issuance attempts.
// Label:
//   - result: "sent", "store_error", or "mail_error"
var OTPIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_issued_total",
		Help:      "Total number of OTP challenges issued, by result.",
	},
	[]string{"result"},
)

// OTPVerifiedTotal counts OTP verification attempts.
// Label:
//   - result: "ok", "expired", or "mismatch"
var OTPVerifiedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "otp_verified_total",
		Help:      "Total number of OTP verification attempts, by result.",
	},
	[]string{"result"},
)

// ── Booking metrics ───────────────────────────────────────────────────────────

// AppointmentsConfirmedTotal counts durably created appointments.
// Label:
//   - mode: "online" or "in_person"
var AppointmentsConfirmedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "appointments_confirmed_total",
		Help:      "Total number of appointments confirmed, by consultation mode.",
	},
	[]string{"mode"},
)

// BookingFinalizeDuration measures the end-to-end latency of a finalize call,
// including the lock-ownership check and the durable transaction.
var BookingFinalizeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "finalize_duration_seconds",
		Help:      "Duration of booking finalization from validation to commit.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
)

// MailQueueDepth tracks the number of confirmation notices waiting in each
// dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var MailQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "mail_queue_depth",
		Help:      "Current number of confirmation notices pending per mail worker.",
	},
	[]string{"worker_id"},
)
