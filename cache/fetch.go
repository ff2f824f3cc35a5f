package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jonwraymond/cachekit/options"
	"github.com/jonwraymond/cachekit/service"
)

// ErrNilCacher indicates Fetch was called without a cache engine.
var ErrNilCacher = errors.New("cache: cacher is nil")

// Fetch builds a key from keyPrefix and keyParams, resolves optionNames with
// the default options as fallback, and delegates to c. A nil svc uses
// service.Default.
//
// A blank keyPrefix is an invalid argument. When the resolved options set
// disable_cache, body runs directly and c is not consulted.
func Fetch[T any](
	ctx context.Context,
	svc *service.Service,
	c Cacher[T],
	keyPrefix string,
	optionNames []string,
	body Body[T],
	keyParams ...any,
) (T, error) {
	var zero T
	if strings.TrimSpace(keyPrefix) == "" {
		return zero, fmt.Errorf("%w: cache: blank key prefix", service.ErrInvalidArgument)
	}
	if c == nil {
		return zero, fmt.Errorf("%w: %w", service.ErrInvalidArgument, ErrNilCacher)
	}
	if svc == nil {
		svc = service.Default()
	}

	opts := svc.Options(options.MissingDefault, optionNames...)
	if opts.Bool(options.DisableCache) {
		return body(ctx)
	}

	key, err := svc.Key(ctx, append([]any{keyPrefix}, keyParams...)...)
	if err != nil {
		return zero, err
	}
	return c.Cache(ctx, key, opts, body)
}
