package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careops_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "careops_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	SlotQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careops_slot_queries_total",
			Help: "Slot availability queries by outcome",
		},
		[]string{"result"},
	)

	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careops_bookings_created_total",
			Help: "Bookings created by channel",
		},
		[]string{"channel"},
	)

	BookingConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "careops_booking_conflicts_total",
			Help: "Booking attempts rejected because the slot was taken",
		},
	)

	BookingStatusChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careops_booking_status_changes_total",
			Help: "Booking status transitions by target status",
		},
		[]string{"status"},
	)

	NotificationsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "careops_notifications_sent_total",
			Help: "Outbound notifications by kind, channel and outcome",
		},
		[]string{"kind", "channel", "status"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "careops_rate_limited_requests_total",
			Help: "Requests rejected by the public rate limiter",
		},
	)
)

func RecordHTTPRequest(method, route, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration)
}

// RecordSlotQuery labels a query "ok", "empty", "not_found", "invalid" or
// "error".
func RecordSlotQuery(result string) {
	SlotQueriesTotal.WithLabelValues(result).Inc()
}

func RecordBookingCreated(channel string) {
	BookingsCreatedTotal.WithLabelValues(channel).Inc()
}

func RecordBookingConflict() {
	BookingConflictsTotal.Inc()
}

func RecordStatusChange(status string) {
	BookingStatusChangesTotal.WithLabelValues(status).Inc()
}

func RecordNotification(kind, channel, status string) {
	NotificationsSentTotal.WithLabelValues(kind, channel, status).Inc()
}

func RecordRateLimited() {
	RateLimitedTotal.Inc()
}
