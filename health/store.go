package health

import (
	"context"
	"time"

	"github.com/jonwraymond/cachekit/varstore"
)

// Pinger is implemented by stores that can verify connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreCheckerConfig configures a StoreChecker.
type StoreCheckerConfig struct {
	// SlowThreshold marks a successful ping that took longer as degraded.
	// Default: 250ms
	SlowThreshold time.Duration
}

// StoreChecker checks a variable store.
type StoreChecker struct {
	name   string
	store  varstore.Store
	config StoreCheckerConfig
}

// NewStoreChecker creates a checker for store. Decorated stores are checked
// through their innermost store.
func NewStoreChecker(name string, store varstore.Store, config StoreCheckerConfig) (*StoreChecker, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if config.SlowThreshold <= 0 {
		config.SlowThreshold = 250 * time.Millisecond
	}
	return &StoreChecker{name: name, store: store, config: config}, nil
}

// Name returns the checker name.
func (c *StoreChecker) Name() string {
	return c.name
}

// Check pings the store.
func (c *StoreChecker) Check(ctx context.Context) Result {
	inner := varstore.Underlying(c.store)
	pinger, ok := inner.(Pinger)
	if !ok {
		return Healthy("in-process store").ForStore(inner.Kind(), 0)
	}

	start := time.Now()
	err := pinger.Ping(ctx)
	elapsed := time.Since(start)

	var r Result
	switch {
	case err != nil:
		r = Unhealthy("store unreachable", err)
	case elapsed > c.config.SlowThreshold:
		r = Degraded("store responding slowly")
	default:
		r = Healthy("store reachable")
	}
	return r.ForStore(inner.Kind(), elapsed)
}

// Ensure StoreChecker implements Checker
var _ Checker = (*StoreChecker)(nil)
