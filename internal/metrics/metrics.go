package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homefix",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "homefix",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "homefix",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Auth metrics
	loginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homefix",
			Subsystem: "auth",
			Name:      "logins_total",
			Help:      "Login attempts by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	guardDenialsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homefix",
			Subsystem: "auth",
			Name:      "guard_denials_total",
			Help:      "Requests stopped by the route guard",
		},
		[]string{"reason"},
	)

	// Booking metrics
	wizardStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homefix",
			Subsystem: "wizard",
			Name:      "steps_total",
			Help:      "Booking wizard step submissions by outcome",
		},
		[]string{"step", "outcome"},
	)

	bookingsConfirmedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homefix",
			Subsystem: "booking",
			Name:      "confirmed_total",
			Help:      "Bookings confirmed by service",
		},
		[]string{"service"},
	)

	contactSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "homefix",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by outcome",
		},
		[]string{"outcome"},
	)

	// Maintenance
	sweptKeysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "homefix",
			Subsystem: "worker",
			Name:      "swept_keys_total",
			Help:      "Expired keys removed from the in-memory store",
		},
	)
)

// Middleware records request counts and latency. Routes are labelled by
// their pattern, never the raw path.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordLogin(role, outcome string) {
	loginsTotal.WithLabelValues(role, outcome).Inc()
}

func RecordGuardDenial(reason string) {
	guardDenialsTotal.WithLabelValues(reason).Inc()
}

func RecordWizardStep(step int, outcome string) {
	wizardStepsTotal.WithLabelValues(strconv.Itoa(step), outcome).Inc()
}

func RecordBookingConfirmed(serviceID string) {
	bookingsConfirmedTotal.WithLabelValues(serviceID).Inc()
}

func RecordContactSubmission(outcome string) {
	contactSubmissionsTotal.WithLabelValues(outcome).Inc()
}

func RecordSweep(n int) {
	sweptKeysTotal.Add(float64(n))
}
