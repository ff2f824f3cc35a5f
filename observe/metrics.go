package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Metrics records store operation metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	RecordOp(ctx context.Context, op StoreOp, duration time.Duration, err error)
}

type metricsImpl struct {
	total    metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewMetrics creates store metrics on meter. A nil meter records nothing.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter("noop")
	}
	m, err := newMetrics(meter)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	total, err := meter.Int64Counter(
		"varstore.ops.total",
		metric.WithDescription("Total number of variable store operations"),
		metric.WithUnit("{op}"),
	)
	if err != nil {
		return nil, err
	}

	errs, err := meter.Int64Counter(
		"varstore.ops.errors",
		metric.WithDescription("Total number of failed variable store operations"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"varstore.ops.duration_ms",
		metric.WithDescription("Variable store operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{total: total, errors: errs, duration: duration}, nil
}

func (m *metricsImpl) RecordOp(ctx context.Context, op StoreOp, duration time.Duration, err error) {
	// The variable name is left out to keep cardinality bounded.
	opt := metric.WithAttributes(op.attributes()[:2]...)

	m.total.Add(ctx, 1, opt)
	if err != nil {
		m.errors.Add(ctx, 1, opt)
	}
	m.duration.Record(ctx, float64(duration.Microseconds())/1000, opt)
}
