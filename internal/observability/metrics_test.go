package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/backoffice-service/internal/config"
)

func TestMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordRequest("/admin/licenses", "GET", 200, 15*time.Millisecond)
	m.RecordRequest("/admin/licenses", "GET", 200, 5*time.Millisecond)
	m.RecordError("/admin/licenses/:id", "GET", "NOT_FOUND")
	m.RecordExport("licenses")
	m.RecordBulkAction("renew", "completed")
	m.RecordLicenseAction("renew", "failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("/admin/licenses", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorCount.WithLabelValues("/admin/licenses/:id", "GET", "NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exportCount.WithLabelValues("licenses")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actionCount.WithLabelValues("bulk", "renew", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actionCount.WithLabelValues("single", "renew", "failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.actionCount.WithLabelValues("single", "renew", "completed")))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, time.Millisecond)
	m.RecordError("/", "GET", "X")
	m.RecordExport("leads")
	m.RecordBulkAction("cancel", "declined")
	m.RecordLicenseAction("notify", "completed")
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "verbose"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestNewLoggerConsoleFormat(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "debug", Format: "console", Service: "backoffice-service", Env: "test"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.Equal(t, map[string]interface{}{"service": "backoffice-service", "env": "test"}, initialFields(config.LoggerConfig{Service: "backoffice-service", Env: "test"}))
	assert.Empty(t, initialFields(config.LoggerConfig{}))
}
