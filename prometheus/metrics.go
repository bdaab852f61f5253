package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"satshop-api/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthErrorsCounter   prometheus.CounterVec

	// Rate limiter metrics
	RateLimitDenialsCounter prometheus.CounterVec

	// Admin gate metrics
	AdminAccessCounter prometheus.CounterVec

	// Order lifecycle metrics
	OrdersCreatedCounter prometheus.CounterVec
	OrderStatusCounter   prometheus.CounterVec

	// Webhook metrics
	WebhookCounter prometheus.CounterVec

	// Notification metrics
	NotificationCounter prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(appConfig *config.Config) {
	prefix := appConfig.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	RateLimitDenialsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_rate_limit_denials_total",
			Help: "Total number of requests denied by the rate limiter",
		},
		[]string{"scope"},
	)

	AdminAccessCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_admin_access_total",
			Help: "Total number of admin gate decisions",
		},
		[]string{"decision"},
	)

	OrdersCreatedCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_orders_created_total",
			Help: "Total number of orders created",
		},
		[]string{"kind"},
	)

	OrderStatusCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_status_changes_total",
			Help: "Total number of order status transitions",
		},
		[]string{"status"},
	)

	WebhookCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_webhooks_total",
			Help: "Total number of webhook deliveries received",
		},
		[]string{"handler", "outcome"},
	)

	NotificationCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_notifications_total",
			Help: "Total number of outbound notifications",
		},
		[]string{"channel", "outcome"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordAuthError increments the counter for a failed authentication
func RecordAuthError(reason string) {
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordRateLimitDenial increments the denial counter for a limiter scope
func RecordRateLimitDenial(scope string) {
	RateLimitDenialsCounter.WithLabelValues(scope).Inc()
}

// RecordAdminDecision increments the admin gate decision counter
func RecordAdminDecision(decision string) {
	AdminAccessCounter.WithLabelValues(decision).Inc()
}

// RecordWebhook increments the webhook counter for a handler and outcome
func RecordWebhook(handler, outcome string) {
	WebhookCounter.WithLabelValues(handler, outcome).Inc()
}

// RecordNotification increments the notification counter for a channel
func RecordNotification(channel, outcome string) {
	NotificationCounter.WithLabelValues(channel, outcome).Inc()
}
