package resilience

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/cachekit/varstore"
)

// StoreConfig selects the protections NewStore applies. Nil members are
// skipped.
type StoreConfig struct {
	// Timeout bounds each attempt. Zero means no per-attempt deadline.
	Timeout time.Duration

	Retry   *RetryConfig
	Breaker *BreakerConfig
}

// Store decorates a varstore.Store with timeout, retry and breaker.
type Store struct {
	inner   varstore.Store
	timeout time.Duration
	retry   *Retry
	breaker *Breaker
	group   singleflight.Group
}

// NewStore wraps inner. The execution order, outermost first, is breaker,
// retry, then the per-attempt timeout.
func NewStore(inner varstore.Store, cfg StoreConfig) (*Store, error) {
	if inner == nil {
		return nil, ErrNilStore
	}
	s := &Store{inner: inner, timeout: cfg.Timeout}
	if cfg.Retry != nil {
		s.retry = NewRetry(*cfg.Retry)
	}
	if cfg.Breaker != nil {
		s.breaker = NewBreaker(*cfg.Breaker)
	}
	return s, nil
}

// Breaker returns the breaker, or nil when none is configured.
func (s *Store) Breaker() *Breaker { return s.breaker }

func (s *Store) Kind() varstore.Kind { return s.inner.Kind() }

func (s *Store) Unwrap() varstore.Store { return s.inner }

func (s *Store) Get(ctx context.Context, name string) (value string, ok bool, err error) {
	err = s.execute(ctx, "get", name, func(ctx context.Context) error {
		var err error
		value, ok, err = s.inner.Get(ctx, name)
		return err
	})
	return value, ok, err
}

// GetOrCompute reads and writes through the hardened Get and Set, so only
// store calls are retried and fn runs at most once per miss.
func (s *Store) GetOrCompute(ctx context.Context, name string, fn varstore.ComputeFunc) (string, bool, error) {
	return varstore.ComputeThrough(ctx, s, &s.group, name, fn)
}

func (s *Store) Set(ctx context.Context, name string, value any) error {
	return s.execute(ctx, "set", name, func(ctx context.Context) error {
		return s.inner.Set(ctx, name, value)
	})
}

func (s *Store) List(ctx context.Context) (names []string, err error) {
	err = s.execute(ctx, "scan", "", func(ctx context.Context) error {
		var err error
		names, err = s.inner.List(ctx)
		return err
	})
	return names, err
}

func (s *Store) execute(ctx context.Context, op, name string, fn func(context.Context) error) error {
	call := fn
	if s.timeout > 0 {
		call = func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			return fn(ctx)
		}
	}
	if s.retry != nil {
		attempt := call
		call = func(ctx context.Context) error {
			return s.retry.Execute(ctx, attempt)
		}
	}
	if s.breaker == nil {
		return call(ctx)
	}

	err := s.breaker.Execute(ctx, call)
	if errors.Is(err, ErrCircuitOpen) {
		return &varstore.StoreError{Op: op, Name: name, Err: ErrCircuitOpen}
	}
	return err
}

// Ensure Store implements varstore.Store
var _ varstore.Store = (*Store)(nil)
