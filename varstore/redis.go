package varstore

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// DefaultRedisPrefix is the namespace used when RedisConfig.Prefix is empty.
const DefaultRedisPrefix = "cachekit"

// scanCount is the COUNT hint sent with each SCAN call.
const scanCount = 100

// RedisConfig configures the Redis variable store.
type RedisConfig struct {
	// Prefix namespaces every variable as "{Prefix}_{name}".
	// Default: DefaultRedisPrefix
	Prefix string

	// Options are passed through to the go-redis client.
	// Default: an empty redis.Options (localhost:6379, DB 0).
	Options *redis.Options
}

// Redis stores variables on a Redis server under a key prefix.
//
// The client is dialed lazily on first use and reused for the lifetime of the
// store. Configure discards the current client; the next call dials again.
type Redis struct {
	mu     sync.Mutex
	prefix string
	opts   redis.Options
	client *redis.Client
	group  singleflight.Group
}

// NewRedis creates a Redis store. No connection is made until first use.
func NewRedis(cfg RedisConfig) *Redis {
	r := &Redis{prefix: cfg.Prefix}
	if r.prefix == "" {
		r.prefix = DefaultRedisPrefix
	}
	if cfg.Options != nil {
		r.opts = *cfg.Options
	}
	return r
}

// Kind returns KindRedis.
func (r *Redis) Kind() Kind { return KindRedis }

// Prefix returns the variable namespace prefix.
func (r *Redis) Prefix() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prefix
}

// SetPrefix changes the variable namespace prefix. An empty prefix restores
// DefaultRedisPrefix.
func (r *Redis) SetPrefix(prefix string) {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	r.mu.Lock()
	r.prefix = prefix
	r.mu.Unlock()
}

// Configure replaces the connection options. The current client, if any, is
// closed and never reused.
func (r *Redis) Configure(opts *redis.Options) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if opts != nil {
		r.opts = *opts
	} else {
		r.opts = redis.Options{}
	}
	if r.client != nil {
		_ = r.client.Close()
		r.client = nil
	}
}

// Get returns the stored value for name. A missing key is not an error.
func (r *Redis) Get(ctx context.Context, name string) (string, bool, error) {
	client, prefix := r.conn()
	value, err := client.Get(ctx, physicalKey(prefix, name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, storeErr("get", name, err)
	}
	return value, true, nil
}

// GetOrCompute returns the stored value or computes, stores and returns it.
func (r *Redis) GetOrCompute(ctx context.Context, name string, fn ComputeFunc) (string, bool, error) {
	return ComputeThrough(ctx, r, &r.group, name, fn)
}

// Set stores the stringified value without expiry.
func (r *Redis) Set(ctx context.Context, name string, value any) error {
	client, prefix := r.conn()
	if err := client.Set(ctx, physicalKey(prefix, name), Stringify(value), 0).Err(); err != nil {
		return storeErr("set", name, err)
	}
	return nil
}

// List scans the prefix namespace and returns logical names, sorted. SCAN
// may report a key more than once; duplicates are removed.
func (r *Redis) List(ctx context.Context) ([]string, error) {
	client, prefix := r.conn()
	physPrefix := prefix + "_"

	var names []string
	iter := client.Scan(ctx, 0, escapeGlob(physPrefix)+"*", scanCount).Iterator()
	for iter.Next(ctx) {
		names = append(names, strings.TrimPrefix(iter.Val(), physPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, storeErr("scan", "", err)
	}
	slices.Sort(names)
	return slices.Compact(names), nil
}

// Ping checks that the server is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	client, _ := r.conn()
	if err := client.Ping(ctx).Err(); err != nil {
		return storeErr("ping", "", err)
	}
	return nil
}

// Close closes the current client. A later call dials again.
func (r *Redis) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

func (r *Redis) conn() (*redis.Client, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.client == nil {
		opts := r.opts
		r.client = redis.NewClient(&opts)
	}
	return r.client, r.prefix
}

func physicalKey(prefix, name string) string {
	return prefix + "_" + name
}

// escapeGlob escapes Redis glob metacharacters so the prefix matches literally.
func escapeGlob(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// Ensure Redis implements Store
var _ Store = (*Redis)(nil)
