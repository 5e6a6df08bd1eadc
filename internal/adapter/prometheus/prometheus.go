package prometheus

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusAdapter implements ports.MetricsPort.
type PrometheusAdapter struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	bookings        *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec
}

// NewPrometheusAdapter registers the storefront collectors on reg.
func NewPrometheusAdapter(reg prometheus.Registerer) *PrometheusAdapter {
	factory := promauto.With(reg)
	return &PrometheusAdapter{
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		bookings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "storefront_bookings_submitted_total",
			Help: "Bookings submitted through the wizard, by payment method.",
		}, []string{"payment_method"}),
		backendDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "storefront_backend_request_duration_seconds",
			Help:    "Duration of calls to the rental backend.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "code"}),
	}
}

func (p *PrometheusAdapter) RecordMetrics(c *gin.Context, start time.Time) {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := strconv.Itoa(c.Writer.Status())
	p.requestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	p.requestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
}

func (p *PrometheusAdapter) BookingSubmitted(method string) {
	p.bookings.WithLabelValues(method).Inc()
}

// BackendCall records one backend round trip. code is 0 when no response
// was received.
func (p *PrometheusAdapter) BackendCall(operation string, code int, elapsed time.Duration) {
	p.backendDuration.WithLabelValues(operation, strconv.Itoa(code)).Observe(elapsed.Seconds())
}
