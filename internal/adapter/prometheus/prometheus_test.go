package prometheus

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	metrics := NewPrometheusAdapter(reg)

	r := gin.New()
	r.GET("/bookings/:id", func(c *gin.Context) {
		start := time.Now()
		c.Status(http.StatusNoContent)
		metrics.RecordMetrics(c, start)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/b1", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/bookings/b2", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requestsTotal.WithLabelValues("GET", "/bookings/:id", "204")))
}

func TestDomainCounters(t *testing.T) {
	metrics := NewPrometheusAdapter(prometheus.NewRegistry())

	metrics.BookingSubmitted("qr")
	metrics.BookingSubmitted("qr")
	metrics.BackendCall("createBooking", 201, 120*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.bookings.WithLabelValues("qr")))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.backendDuration))
}
