package cache

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/limbo/readtogether/internal/cache"

type Metrics struct {
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	evictions     metric.Int64Counter
	invalidations metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error
	m.hits, err = meter.Int64Counter(
		"cache.hits",
		metric.WithDescription("Result cache lookups served from memory"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}
	m.misses, err = meter.Int64Counter(
		"cache.misses",
		metric.WithDescription("Result cache lookups that went to the store"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}
	m.evictions, err = meter.Int64Counter(
		"cache.evictions",
		metric.WithDescription("Expired result cache entries removed"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}
	m.invalidations, err = meter.Int64Counter(
		"cache.invalidations",
		metric.WithDescription("Result cache entries removed by invalidation"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// DefaultMetrics registers against the global meter provider, falling back to
// a no-op meter if registration fails.
func DefaultMetrics() *Metrics {
	m, err := NewMetrics(otel.Meter(meterName))
	if err != nil {
		m, _ = NewMetrics(noop.NewMeterProvider().Meter(meterName))
	}
	return m
}

func kindAttr(kind Kind) metric.AddOption {
	return metric.WithAttributes(attribute.String("kind", string(kind)))
}

func (m *Metrics) hit(ctx context.Context, kind Kind) {
	m.hits.Add(ctx, 1, kindAttr(kind))
}

func (m *Metrics) miss(ctx context.Context, kind Kind) {
	m.misses.Add(ctx, 1, kindAttr(kind))
}

func (m *Metrics) evicted(ctx context.Context, kind Kind, n int) {
	m.evictions.Add(ctx, int64(n), kindAttr(kind))
}

func (m *Metrics) invalidated(ctx context.Context, reason string, n int) {
	m.invalidations.Add(ctx, int64(n), metric.WithAttributes(attribute.String("reason", reason)))
}
