package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Login counters
	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Signup counters
	SignupCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "portal_signup_total",
			Help: "Total number of tenant sign-ups",
		},
	)

	// Maintenance request counter by urgency
	RequestSubmittedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_requests_submitted_total",
			Help: "Total number of maintenance requests submitted",
		},
		[]string{"urgency"},
	)

	// Status change counter by target status
	StatusChangeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_request_status_changes_total",
			Help: "Total number of request status changes",
		},
		[]string{"status"},
	)

	// Feedback counter by rating
	FeedbackCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_feedback_total",
			Help: "Total number of feedback submissions",
		},
		[]string{"rating"},
	)

	// Stock adjustment counter by type
	StockAdjustmentCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_stock_adjustments_total",
			Help: "Total number of stock quantity adjustments",
		},
		[]string{"type"},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	PortalErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_errors_total",
			Help: "Total number of portal errors",
		},
		[]string{"type"}, // type can be "login_failure", "invalid_token", "db_error" etc.
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Low-stock items currently below their reorder threshold
	LowStockGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portal_low_stock_items",
			Help: "Number of stock items at or below their minimum quantity",
		},
		[]string{"residence"},
	)

	// Realtime feed subscribers
	FeedSubscribersGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_feed_subscribers",
			Help: "Number of connected realtime feed subscribers",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "portal_info",
			Help: "Information about the portal service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(SignupCounter)
	prometheus.MustRegister(RequestSubmittedCounter)
	prometheus.MustRegister(StatusChangeCounter)
	prometheus.MustRegister(FeedbackCounter)
	prometheus.MustRegister(StockAdjustmentCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(PortalErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(LowStockGauge)
	prometheus.MustRegister(FeedSubscribersGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// RecordPortalError records a portal error by type
func RecordPortalError(errorType string) {
	PortalErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			// Record metrics
			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}
