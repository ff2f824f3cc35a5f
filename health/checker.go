package health

import (
	"context"
	"time"

	"github.com/jonwraymond/cachekit/varstore"
)

// Status is the health of a variable store or of a set of checks. Higher
// values are worse.
type Status int

const (
	StatusHealthy Status = iota
	StatusDegraded
	StatusUnhealthy
)

var statusNames = [...]string{"healthy", "degraded", "unhealthy"}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

// StoreStatus describes the store behind a result.
type StoreStatus struct {
	Kind varstore.Kind

	// Latency is the ping round trip; zero for in-process stores.
	Latency time.Duration
}

// Result is the outcome of one check.
type Result struct {
	Status  Status
	Message string
	Error   error

	// Store is set by store checks.
	Store *StoreStatus

	// Components holds the per-checker results of an aggregate check.
	Components map[string]Result

	Duration  time.Duration
	Timestamp time.Time
}

func newResult(status Status, message string, err error) Result {
	return Result{Status: status, Message: message, Error: err, Timestamp: time.Now()}
}

// Healthy creates a healthy result.
func Healthy(message string) Result { return newResult(StatusHealthy, message, nil) }

// Degraded creates a degraded result.
func Degraded(message string) Result { return newResult(StatusDegraded, message, nil) }

// Unhealthy creates an unhealthy result carrying the failure.
func Unhealthy(message string, err error) Result {
	return newResult(StatusUnhealthy, message, err)
}

// ForStore attaches store details to r.
func (r Result) ForStore(kind varstore.Kind, latency time.Duration) Result {
	r.Store = &StoreStatus{Kind: kind, Latency: latency}
	return r
}

// Checker is a named health check.
type Checker interface {
	Name() string
	Check(ctx context.Context) Result
}

type checkerFunc struct {
	name string
	fn   func(context.Context) Result
}

// NewCheckerFunc adapts fn to a Checker called name.
func NewCheckerFunc(name string, fn func(context.Context) Result) Checker {
	return checkerFunc{name: name, fn: fn}
}

func (f checkerFunc) Name() string { return f.name }

func (f checkerFunc) Check(ctx context.Context) Result { return f.fn(ctx) }
