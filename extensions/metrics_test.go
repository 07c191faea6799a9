package extensions

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lazy "github.com/lazy-fn/lazy-go"
)

func TestMetricsExtensionCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	ext := NewMetricsExtension(WithRegistry(reg), WithNamespace("test"))
	schema, radius, area := newCircleSchema(t)
	require.NoError(t, schema.Use(ext))

	o := schema.New()
	_, err := area.Get(o)
	require.NoError(t, err)
	require.NoError(t, radius.Set(o, 2))
	_, err = area.Get(o)
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(ext.computes.WithLabelValues("Circle", "area")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ext.writes.WithLabelValues("Circle", "radius")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ext.expirations.WithLabelValues("Circle", "area")))
	assert.Equal(t, 2.0, testutil.ToFloat64(ext.cacheEvents.WithLabelValues("Circle", "area", "miss")))
	assert.Equal(t, 1, testutil.CollectAndCount(ext.computeDuration, "test_compute_duration_seconds"))
}

func TestMetricsExtensionCountsErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	ext := NewMetricsExtension(WithRegistry(reg), WithNamespace("test"))

	radius := lazy.Variable("radius", func() float64 { return 1 })
	bad := lazy.Property("bad", []lazy.Chain{{"radius"}},
		func(args []any) (float64, error) {
			return 0, errors.New("boom")
		})
	schema := lazy.NewSchema("Circle").Declare(radius, bad).Seal()
	require.NoError(t, schema.Use(ext))

	_, err := bad.Get(schema.New())
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(ext.computeErrors.WithLabelValues("Circle", "bad")))
	assert.Equal(t, 1.0, testutil.ToFloat64(ext.computes.WithLabelValues("Circle", "bad")))
}

func TestMetricsExtensionOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	ext := NewMetricsExtension(
		WithRegistry(reg),
		WithNamespace("ns"),
		WithSubsystem("sub"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1, 1}),
	)
	schema, _, area := newCircleSchema(t)
	require.NoError(t, schema.Use(ext))
	_, err := area.Get(schema.New())
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg,
		"ns_sub_computes_total",
		"ns_sub_compute_duration_seconds",
	)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
