package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenabook_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arenabook_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsCommittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenabook_bookings_committed_total",
			Help: "Bookings written, by initial status",
		},
		[]string{"status"},
	)

	BookingConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenabook_booking_conflicts_total",
			Help: "Rejected booking attempts due to overlap, by stage (precheck or commit)",
		},
		[]string{"stage"},
	)

	BookingBusyTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "arenabook_booking_busy_total",
			Help: "Booking commits that timed out waiting for the arena/date scope",
		},
	)

	BookingLockWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arenabook_booking_lock_wait_seconds",
			Help:    "Time spent acquiring the arena/date commit scope",
			Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenabook_booking_transitions_total",
			Help: "Booking lifecycle transitions, by action and result",
		},
		[]string{"action", "result"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenabook_notifications_total",
			Help: "Notification deliveries, by channel and status",
		},
		[]string{"channel", "status"},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenabook_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "arenabook_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenabook_payments_total",
			Help: "Payment status changes, by method and status",
		},
		[]string{"method", "status"},
	)

	ArenaCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arenabook_arena_cache_total",
			Help: "Arena configuration cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingCommitted(status string) {
	BookingsCommittedTotal.WithLabelValues(status).Inc()
}

func RecordBookingConflict(stage string) {
	BookingConflictsTotal.WithLabelValues(stage).Inc()
}

func RecordBookingBusy() {
	BookingBusyTotal.Inc()
}

func ObserveLockWait(seconds float64) {
	BookingLockWait.Observe(seconds)
}

func RecordTransition(action, result string) {
	BookingTransitionsTotal.WithLabelValues(action, result).Inc()
}

func RecordNotification(channel, status string) {
	NotificationsTotal.WithLabelValues(channel, status).Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordPayment(method, status string) {
	PaymentsTotal.WithLabelValues(method, status).Inc()
}

func RecordArenaCache(result string) {
	ArenaCacheTotal.WithLabelValues(result).Inc()
}
