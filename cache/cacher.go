package cache

import (
	"context"

	"github.com/jonwraymond/cachekit/options"
)

// Body produces the value to cache.
type Body[T any] func(ctx context.Context) (T, error)

// Cacher is the cache engine contract. Cache returns the value stored under
// key or runs body, stores its result according to opts and returns it.
//
// Contract:
//   - Concurrency: implementations must be safe for concurrent use.
//   - Errors: body errors must be returned and must not be cached.
type Cacher[T any] interface {
	Cache(ctx context.Context, key string, opts options.Map, body Body[T]) (T, error)
}

// CacherFunc adapts a function to Cacher.
type CacherFunc[T any] func(ctx context.Context, key string, opts options.Map, body Body[T]) (T, error)

// Cache calls f.
func (f CacherFunc[T]) Cache(ctx context.Context, key string, opts options.Map, body Body[T]) (T, error) {
	return f(ctx, key, opts, body)
}
