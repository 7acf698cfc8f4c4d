package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "storerate",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storerate",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storerate",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	authEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storerate",
			Subsystem: "auth",
			Name:      "events_total",
			Help:      "Authentication events by kind.",
		},
		[]string{"event"},
	)

	ratings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storerate",
			Subsystem: "ratings",
			Name:      "writes_total",
			Help:      "Rating submissions and updates by score.",
		},
		[]string{"action", "score"},
	)

	mailDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storerate",
			Subsystem: "mail",
			Name:      "deliveries_total",
			Help:      "Outgoing mail attempts by result.",
		},
		[]string{"result"},
	)

	maintenanceRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storerate",
			Subsystem: "maintenance",
			Name:      "job_runs_total",
			Help:      "Scheduled maintenance job runs.",
		},
		[]string{"job", "success"},
	)

	maintenanceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storerate",
			Subsystem: "maintenance",
			Name:      "job_run_duration_seconds",
			Help:      "Duration of scheduled maintenance jobs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"job"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		authEvents,
		ratings,
		mailDeliveries,
		maintenanceRuns,
		maintenanceDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry as a fiber handler.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(Registry, promhttp.HandlerOpts{}))
}

// Middleware records request counts and latency per route. Errors are
// rendered by the app's error handler first so the final status is counted.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		method := strings.ToUpper(c.Method())
		path := c.Route().Path
		status := strconv.Itoa(c.Response().StatusCode())
		httpRequests.WithLabelValues(method, path, status).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		return nil
	}
}

// RecordAuthEvent counts signup, login and password reset events.
func RecordAuthEvent(event string) {
	authEvents.WithLabelValues(event).Inc()
}

// RecordRating counts a rating write.
func RecordRating(action string, score int) {
	ratings.WithLabelValues(action, strconv.Itoa(score)).Inc()
}

// RecordMailDelivery counts a mail attempt.
func RecordMailDelivery(success bool) {
	result := "failed"
	if success {
		result = "sent"
	}
	mailDeliveries.WithLabelValues(result).Inc()
}

// RecordMaintenanceRun records a scheduled job execution.
func RecordMaintenanceRun(job string, duration time.Duration, success bool) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	maintenanceRuns.WithLabelValues(job, strconv.FormatBool(success)).Inc()
	maintenanceDuration.WithLabelValues(job).Observe(duration.Seconds())
}
