package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "servimarket_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "servimarket_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PurchasesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "servimarket_purchases_total",
			Help: "Total number of purchase intents created",
		},
	)

	SettlementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "servimarket_settlements_total",
			Help: "Total number of payment confirmation attempts",
		},
		[]string{"result"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "servimarket_notifications_total",
			Help: "Total number of notifications stored",
		},
		[]string{"type"},
	)

	NotificationPushesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "servimarket_notification_pushes_total",
			Help: "Total number of real-time notification pushes attempted",
		},
	)

	MessagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "servimarket_messages_total",
			Help: "Total number of chat messages stored",
		},
	)

	PresenceConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "servimarket_presence_connections",
			Help: "Number of live stream connections",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "servimarket_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordPurchase() {
	PurchasesTotal.Inc()
}

func RecordSettlement(result string) {
	SettlementsTotal.WithLabelValues(result).Inc()
}

func RecordNotification(notificationType string) {
	NotificationsTotal.WithLabelValues(notificationType).Inc()
}

func RecordNotificationPush() {
	NotificationPushesTotal.Inc()
}

func RecordMessage() {
	MessagesTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
