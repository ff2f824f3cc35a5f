package observe

import (
	"context"
	"time"

	"github.com/jonwraymond/cachekit/varstore"
)

// OpFunc is one store call.
type OpFunc func(ctx context.Context) error

// Middleware wraps store calls with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap returns a thread-safe OpFunc.
//   - Errors: errors from the wrapped call are recorded and returned unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a Middleware. Nil components become no-ops.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NewTracer(nil)
	}
	if metrics == nil {
		metrics, _ = NewMetrics(nil)
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{tracer: tracer, metrics: metrics, logger: logger}
}

// Wrap instruments fn as operation op.
func (m *Middleware) Wrap(op StoreOp, fn OpFunc) OpFunc {
	return func(ctx context.Context) error {
		ctx, span := m.tracer.StartSpan(ctx, op)
		start := time.Now()

		err := fn(ctx)

		duration := time.Since(start)
		m.tracer.EndSpan(span, err)
		m.metrics.RecordOp(ctx, op, duration, err)

		fields := []Field{
			{Key: "varstore.kind", Value: op.Kind.String()},
			{Key: "varstore.op", Value: op.Op},
			{Key: "duration_ms", Value: float64(duration.Microseconds()) / 1000},
		}
		if op.Name != "" {
			fields = append(fields, Field{Key: "varstore.variable", Value: op.Name})
		}
		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			m.logger.Error(ctx, "variable store operation failed", fields...)
		} else {
			m.logger.Debug(ctx, "variable store operation completed", fields...)
		}
		return err
	}
}

// instrumentedStore decorates a Store with a Middleware.
type instrumentedStore struct {
	inner varstore.Store
	mw    *Middleware
}

// InstrumentStore returns inner decorated with mw. A nil mw returns inner.
func InstrumentStore(inner varstore.Store, mw *Middleware) (varstore.Store, error) {
	if inner == nil {
		return nil, ErrNilStore
	}
	if mw == nil {
		return inner, nil
	}
	return &instrumentedStore{inner: inner, mw: mw}, nil
}

func (s *instrumentedStore) Kind() varstore.Kind { return s.inner.Kind() }

func (s *instrumentedStore) Unwrap() varstore.Store { return s.inner }

func (s *instrumentedStore) op(name, variable string) StoreOp {
	return StoreOp{Kind: s.inner.Kind(), Op: name, Name: variable}
}

func (s *instrumentedStore) Get(ctx context.Context, name string) (value string, ok bool, err error) {
	err = s.mw.Wrap(s.op(OpGet, name), func(ctx context.Context) error {
		var err error
		value, ok, err = s.inner.Get(ctx, name)
		return err
	})(ctx)
	return value, ok, err
}

func (s *instrumentedStore) GetOrCompute(ctx context.Context, name string, fn varstore.ComputeFunc) (value string, ok bool, err error) {
	err = s.mw.Wrap(s.op(OpGetOrCompute, name), func(ctx context.Context) error {
		var err error
		value, ok, err = s.inner.GetOrCompute(ctx, name, fn)
		return err
	})(ctx)
	return value, ok, err
}

func (s *instrumentedStore) Set(ctx context.Context, name string, value any) error {
	return s.mw.Wrap(s.op(OpSet, name), func(ctx context.Context) error {
		return s.inner.Set(ctx, name, value)
	})(ctx)
}

func (s *instrumentedStore) List(ctx context.Context) (names []string, err error) {
	err = s.mw.Wrap(s.op(OpList, ""), func(ctx context.Context) error {
		var err error
		names, err = s.inner.List(ctx)
		return err
	})(ctx)
	return names, err
}

// Ensure instrumentedStore implements Store
var _ varstore.Store = (*instrumentedStore)(nil)
