package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// Name identifies the breaker in state change callbacks.
	// Default: "varstore"
	Name string

	// MaxRequests is the number of trial calls allowed while half-open.
	// Default: 1
	MaxRequests uint32

	// Interval clears the closed-state counts periodically. Zero never clears.
	Interval time.Duration

	// Timeout is how long the breaker stays open before going half-open.
	// Default: 30s
	Timeout time.Duration

	// MinRequests is the number of calls in the current interval before
	// FailureRatio is evaluated.
	// Default: 5
	MinRequests uint32

	// FailureRatio trips the breaker once failures/requests reaches it.
	// Default: 0.5
	FailureRatio float64

	// IsFailure decides which errors count against the breaker.
	// Default: IsStoreFailure.
	IsFailure func(err error) bool

	// OnStateChange is called on every state transition.
	OnStateChange func(name string, from, to gobreaker.State)
}

// Breaker is a circuit breaker for store calls.
type Breaker struct {
	config BreakerConfig
	cb     *gobreaker.CircuitBreaker
}

// NewBreaker creates a Breaker with defaults applied.
func NewBreaker(config BreakerConfig) *Breaker {
	if config.Name == "" {
		config.Name = "varstore"
	}
	if config.MaxRequests == 0 {
		config.MaxRequests = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MinRequests == 0 {
		config.MinRequests = 5
	}
	if config.FailureRatio <= 0 || config.FailureRatio > 1 {
		config.FailureRatio = 0.5
	}
	if config.IsFailure == nil {
		config.IsFailure = IsStoreFailure
	}

	isFailure := config.IsFailure
	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < config.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= config.FailureRatio
		},
		OnStateChange: config.OnStateChange,
		IsSuccessful: func(err error) bool {
			return err == nil || !isFailure(err)
		},
	}

	return &Breaker{config: config, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs op through the breaker. A rejected call returns ErrCircuitOpen
// without invoking op.
func (b *Breaker) Execute(ctx context.Context, op func(context.Context) error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, op(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrCircuitOpen
	}
	return err
}

// State returns the current breaker state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Config returns the breaker configuration.
func (b *Breaker) Config() BreakerConfig {
	return b.config
}
