package varstore

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/cachekit/digest"
)

// Kind identifies a variable store backend.
type Kind int

const (
	// KindMemory is the process-local map backend.
	KindMemory Kind = iota
	// KindRedis is the Redis backend.
	KindRedis
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMemory:
		return "memory"
	case KindRedis:
		return "redis"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind parses a kind name. "internal" is accepted as an alias of memory.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "memory", "internal":
		return KindMemory, nil
	case "redis":
		return KindRedis, nil
	default:
		return 0, fmt.Errorf("%w: unknown variable store kind %q", ErrInvalidArgument, s)
	}
}

// ComputeFunc produces a value for a missing variable.
type ComputeFunc func(ctx context.Context) (any, error)

// Store is a named string key-value store.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: methods performing I/O must honor cancellation/deadlines.
// - Errors: backend failures match ErrStoreUnavailable; a miss is not an error.
type Store interface {
	// Kind reports the backend kind.
	Kind() Kind

	// Get returns the stored value. ok is false when the name is unset.
	Get(ctx context.Context, name string) (value string, ok bool, err error)

	// GetOrCompute returns the stored value, or runs fn once, stores its
	// stringified result and returns it. A nil fn behaves like Get.
	GetOrCompute(ctx context.Context, name string, fn ComputeFunc) (value string, ok bool, err error)

	// Set stores the stringified value under name.
	Set(ctx context.Context, name string, value any) error

	// List returns the names of all stored variables, in no particular order.
	List(ctx context.Context) ([]string, error)
}

// Stringify converts a value to its stored string form.
//
// Strings and byte slices are kept verbatim, nil becomes "", fmt.Stringer and
// scalars use their usual formatting, and composite values use the digest
// canonical form.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ""
	}

	switch val := v.(type) {
	case fmt.Stringer:
		return val.String()
	case error:
		return val.Error()
	}

	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return digest.Canonical(v)
	case reflect.Pointer:
		return Stringify(rv.Elem().Interface())
	default:
		return fmt.Sprint(v)
	}
}

// ReadWriter is the subset of Store that ComputeThrough builds on.
type ReadWriter interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name string, value any) error
}

// ComputeThrough implements GetOrCompute on top of Get and Set. Concurrent
// misses for the same name share a single fn run, and fn is never rerun
// because of a failed Set.
func ComputeThrough(ctx context.Context, s ReadWriter, group *singleflight.Group, name string, fn ComputeFunc) (string, bool, error) {
	value, ok, err := s.Get(ctx, name)
	if err != nil || ok || fn == nil {
		return value, ok, err
	}

	v, err, _ := group.Do(name, func() (any, error) {
		// Another caller may have stored it since our first read.
		if value, ok, err := s.Get(ctx, name); err != nil {
			return nil, err
		} else if ok {
			return value, nil
		}

		computed, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		value := Stringify(computed)
		if err := s.Set(ctx, name, value); err != nil {
			return nil, err
		}
		return value, nil
	})
	if err != nil {
		return "", false, err
	}
	return v.(string), true, nil
}

// Wrapper is implemented by Store decorators.
type Wrapper interface {
	Unwrap() Store
}

// Underlying strips all decorators and returns the innermost store.
func Underlying(s Store) Store {
	for {
		w, ok := s.(Wrapper)
		if !ok {
			return s
		}
		s = w.Unwrap()
	}
}
