package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendease_http_requests_total",
		Help: "Total HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "attendease_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	attendanceMarksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendease_attendance_marks_total",
		Help: "Attendance records created, by marking method.",
	}, []string{"method"})

	faceVerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendease_face_verifications_total",
		Help: "Face verification attempts by outcome.",
	}, []string{"outcome"})
)

// Metrics records request counts and latencies per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		httpRequestDuration.WithLabelValues(
			c.Request.Method, route,
		).Observe(time.Since(start).Seconds())
	}
}

// CountAttendanceMark records an attendance mark for the given method.
func CountAttendanceMark(method string) {
	attendanceMarksTotal.WithLabelValues(method).Inc()
}

// CountFaceVerification records a face verification outcome.
func CountFaceVerification(outcome string) {
	faceVerificationsTotal.WithLabelValues(outcome).Inc()
}
