package service

import (
	"context"
	"sync"

	"github.com/jonwraymond/cachekit/options"
	"github.com/jonwraymond/cachekit/varstore"
)

var (
	defaultMu  sync.Mutex
	defaultSvc *Service
)

// Default returns the process-wide Service, creating it on first use.
func Default() *Service {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSvc == nil {
		defaultSvc = New()
	}
	return defaultSvc
}

// SetDefault replaces the process-wide Service and returns the previous one,
// which may be nil. The caller owns the previous service.
func SetDefault(s *Service) *Service {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	prev := defaultSvc
	defaultSvc = s
	return prev
}

// Reload replaces the process-wide Service with a fresh one and closes the
// previous service.
func Reload(ctx context.Context, opts ...Option) (*Service, error) {
	prev := SetDefault(New(opts...))
	if prev == nil {
		return Default(), nil
	}
	return Default(), prev.Close(ctx)
}

// Key builds a key with the default Service.
func Key(ctx context.Context, args ...any) (string, error) {
	return Default().Key(ctx, args...)
}

// Digest digests v.
func Digest(v any) string {
	return Default().Digest(v)
}

// Options resolves names with the default Service.
func Options(onMissing options.OnMissing, names ...string) options.Map {
	return Default().Options(onMissing, names...)
}

// VariableGet reads a variable from the default Service.
func VariableGet(ctx context.Context, name string) (string, bool, error) {
	return Default().VariableGet(ctx, name)
}

// VariableGetOrCompute reads or computes a variable with the default Service.
func VariableGetOrCompute(ctx context.Context, name string, fn varstore.ComputeFunc) (string, bool, error) {
	return Default().VariableGetOrCompute(ctx, name, fn)
}

// VariableSet stores a variable with the default Service.
func VariableSet(ctx context.Context, name string, value any) error {
	return Default().VariableSet(ctx, name, value)
}
