package observe

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/onyxcorp/model/pkg/record"
)

func TestZapLoggerSatisfiesRecordLogger(t *testing.T) {
	logger, err := NewZapLogger("prod")
	require.NoError(t, err)
	defer logger.Sync()

	var _ record.Logger = logger

	// Exercise every level; zap must not panic on key/value pairs.
	logger.Debug("debug", "k", "v")
	logger.Info("info", "k", "v")
	logger.Warn("warn", "k", "v")
	logger.Error("error", "k", "v")
	logger.With("family", "person").Info("scoped")
}

func TestWrapZap(t *testing.T) {
	logger := WrapZap(zap.NewNop())
	var _ record.Logger = logger
	logger.Info("noop")
}

func TestPrometheusMetricsCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	metrics.ObserveValidation("person", true)
	metrics.ObserveValidation("person", true)
	metrics.ObserveValidation("person", false)
	metrics.ObserveMutation("person", true)
	metrics.ObserveMutation("person", false)

	assert.Equal(t, float64(2),
		testutil.ToFloat64(metrics.validations.WithLabelValues("person", "ok")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.validations.WithLabelValues("person", "error")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.mutations.WithLabelValues("person", "ok")))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(metrics.mutations.WithLabelValues("person", "error")))
}

func TestPrometheusMetricsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)
	_, err = NewPrometheusMetrics(reg)
	assert.Error(t, err, "re-registering the same collectors must fail")
}

func TestMetricsSatisfyRecordMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)
	var _ record.Metrics = metrics
}
