package ports

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
)

type LoggerPort interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) LoggerPort
}

type CachePort interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type MetricsPort interface {
	RecordMetrics(c *gin.Context, start time.Time)
	BookingSubmitted(method string)
	BackendCall(operation string, code int, elapsed time.Duration)
}
