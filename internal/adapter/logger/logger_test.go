package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newLoggerAdapter(&buf, "production")

	l.Debug("hidden", nil)
	l.With(map[string]interface{}{"visitor_id": "v1"}).Info("Booking created", map[string]interface{}{
		"booking_id": "b1",
	})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Booking created", line["msg"])
	assert.Equal(t, "b1", line["booking_id"])
	assert.Equal(t, "v1", line["visitor_id"])
}

func TestDevelopmentLoggerIncludesDebug(t *testing.T) {
	var buf bytes.Buffer
	l := newLoggerAdapter(&buf, "development")

	l.Debug("Backend call", map[string]interface{}{"operation": "login"})

	assert.Contains(t, buf.String(), "operation=login")
}
