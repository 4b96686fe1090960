package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	orderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "Purchase order status transitions",
		},
		[]string{"status"},
	)

	ticketVerifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_verifications_total",
			Help: "Gate verification attempts by outcome",
		},
		[]string{"result"},
	)

	notificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_publish_failures_total",
			Help: "Notifications that could not be queued for delivery",
		},
	)
)

func OrderTransition(status string) {
	orderTransitions.WithLabelValues(status).Inc()
}

func TicketVerification(result string) {
	ticketVerifications.WithLabelValues(result).Inc()
}

func NotificationFailure() {
	notificationFailures.Inc()
}
