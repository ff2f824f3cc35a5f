package service

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/cachekit/digest"
	"github.com/jonwraymond/cachekit/key"
	"github.com/jonwraymond/cachekit/observe"
	"github.com/jonwraymond/cachekit/options"
	"github.com/jonwraymond/cachekit/varstore"
)

// StoreDecorator wraps a freshly built variable store.
type StoreDecorator func(varstore.Store) varstore.Store

// Service holds the key prefix, option registry and variable store.
//
// Contract:
//   - Concurrency: safe for concurrent use. Store calls run outside the
//     service lock.
//   - Ownership: the service closes stores it built when they are replaced
//     or when Close is called.
type Service struct {
	mu         sync.RWMutex
	prefix     string
	opts       *options.Registry
	stores     *varstore.Registry
	kind       varstore.Kind
	raw        varstore.Store // as built by the registry
	store      varstore.Store // raw with decorators applied
	redis      varstore.RedisConfig
	decorators []StoreDecorator
	logger     observe.Logger
	shutdown   []func(context.Context) error
}

// Option configures a Service.
type Option func(*Service)

// WithKeyPrefix sets the key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(s *Service) { s.prefix = prefix }
}

// WithLogger sets the logger for store lifecycle events.
func WithLogger(l observe.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStoreRegistry replaces varstore.DefaultRegistry.
func WithStoreRegistry(r *varstore.Registry) Option {
	return func(s *Service) {
		if r != nil {
			s.stores = r
		}
	}
}

// WithStoreKind selects the kind built on first use. Default: memory.
func WithStoreKind(kind varstore.Kind) Option {
	return func(s *Service) { s.kind = kind }
}

// WithRedisOptions sets the connection options for redis stores.
func WithRedisOptions(opts *redis.Options) Option {
	return func(s *Service) { s.redis.Options = opts }
}

// WithRedisPrefix sets the namespace prefix for redis stores.
func WithRedisPrefix(prefix string) Option {
	return func(s *Service) { s.redis.Prefix = prefix }
}

// WithStore installs store as the active variable store. Decorators are not
// applied to it.
func WithStore(store varstore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.kind = store.Kind()
			s.raw = store
			s.store = store
		}
	}
}

// WithStoreDecorator adds a decorator applied to every store the service
// builds. Decorators apply in the order given; the last is outermost.
func WithStoreDecorator(d StoreDecorator) Option {
	return func(s *Service) {
		if d != nil {
			s.decorators = append(s.decorators, d)
		}
	}
}

// New creates a Service. The variable store is built on first use.
func New(opts ...Option) *Service {
	s := &Service{
		opts:   options.NewRegistry(),
		stores: varstore.DefaultRegistry,
		kind:   varstore.KindMemory,
		logger: observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key builds a cache key from args under the registered key prefix.
// Variables named in digest requests are read from the active store.
func (s *Service) Key(ctx context.Context, args ...any) (string, error) {
	return key.NewBuilder(s.KeyPrefix(), s).Build(ctx, args...)
}

// Digest returns the SHA-1 hex digest of v's canonical form.
func (s *Service) Digest(v any) string {
	return digest.Sum(v)
}

// RegisterKeyPrefix replaces the key prefix.
func (s *Service) RegisterKeyPrefix(prefix string) {
	s.mu.Lock()
	s.prefix = prefix
	s.mu.Unlock()
}

// KeyPrefix returns the key prefix, empty when none is registered.
func (s *Service) KeyPrefix() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefix
}

// RegisterDefaultOptions replaces the default options.
func (s *Service) RegisterDefaultOptions(m options.Map) {
	s.opts.RegisterDefault(m)
}

// DefaultOptions returns a copy of the default options.
func (s *Service) DefaultOptions() options.Map {
	return s.opts.Default()
}

// RegisterOptions stores m under name. A blank name is an invalid argument.
func (s *Service) RegisterOptions(name string, m options.Map) error {
	return invalidArgument(s.opts.Register(name, m))
}

// RegisteredOptions returns a copy of the set stored under name.
func (s *Service) RegisteredOptions(name string) (options.Map, bool) {
	return s.opts.Registered(name)
}

// IsRegisteredOptions reports whether a set is stored under name.
func (s *Service) IsRegisteredOptions(name string) bool {
	return s.opts.IsRegistered(name)
}

// Options resolves names against the registry; see options.Registry.Resolve.
func (s *Service) Options(onMissing options.OnMissing, names ...string) options.Map {
	return s.opts.Resolve(onMissing, names...)
}

// RegisterVariablesStore makes a store of kind active. When the active store
// already has that kind and force is false it is kept; otherwise a new store
// is built and the previous one is closed.
func (s *Service) RegisterVariablesStore(kind varstore.Kind, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.raw != nil && s.kind == kind && !force {
		return nil
	}
	return s.installLocked(kind)
}

// RegisterVariablesStoreName is RegisterVariablesStore with a kind name such
// as "memory", "internal" or "redis".
func (s *Service) RegisterVariablesStoreName(name string, force bool) error {
	kind, err := varstore.ParseKind(name)
	if err != nil {
		return invalidArgument(err)
	}
	return s.RegisterVariablesStore(kind, force)
}

// ReloadVariablesStore replaces the active store with a fresh one of the
// same kind.
func (s *Service) ReloadVariablesStore() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installLocked(s.kind)
}

// VariablesStore returns the active store, building it on first use.
func (s *Service) VariablesStore() varstore.Store {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()
	if store != nil {
		return store
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		if err := s.installLocked(s.kind); err != nil {
			s.logger.Error(context.Background(), "variable store unavailable, using memory",
				observe.Field{Key: "varstore.kind", Value: s.kind.String()},
				observe.Field{Key: "error", Value: err.Error()},
			)
			s.setLocked(varstore.KindMemory, varstore.NewMemory())
		}
	}
	return s.store
}

// ConfigureRedis replaces the redis connection options. An active redis
// store drops its current client and dials again on next use.
func (s *Service) ConfigureRedis(opts *redis.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.redis.Options = opts
	if r, ok := varstore.Underlying(s.raw).(*varstore.Redis); ok {
		r.Configure(opts)
	}
}

// SetRedisPrefix replaces the redis namespace prefix, including on an active
// redis store.
func (s *Service) SetRedisPrefix(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.redis.Prefix = prefix
	if r, ok := varstore.Underlying(s.raw).(*varstore.Redis); ok {
		r.SetPrefix(prefix)
	}
}

// RedisPrefix returns the effective redis namespace prefix.
func (s *Service) RedisPrefix() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.redis.Prefix == "" {
		return varstore.DefaultRedisPrefix
	}
	return s.redis.Prefix
}

// VariableGet returns the stored value of name.
func (s *Service) VariableGet(ctx context.Context, name string) (string, bool, error) {
	return s.VariablesStore().Get(ctx, name)
}

// VariableGetOrCompute returns the stored value of name, computing and
// storing it on a miss.
func (s *Service) VariableGetOrCompute(ctx context.Context, name string, fn varstore.ComputeFunc) (string, bool, error) {
	return s.VariablesStore().GetOrCompute(ctx, name, fn)
}

// VariableSet stores value under name.
func (s *Service) VariableSet(ctx context.Context, name string, value any) error {
	return s.VariablesStore().Set(ctx, name, value)
}

// Variables lists the stored variable names.
func (s *Service) Variables(ctx context.Context) ([]string, error) {
	return s.VariablesStore().List(ctx)
}

// Variable implements key.Resolver.
func (s *Service) Variable(ctx context.Context, name string) (string, bool, error) {
	return s.VariableGet(ctx, name)
}

// Close closes the active store and shuts down telemetry created by
// NewFromConfig. The service builds a new store if used afterwards.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	raw := s.raw
	s.raw, s.store = nil, nil
	shutdown := s.shutdown
	s.shutdown = nil
	s.mu.Unlock()

	var errs []error
	if c, ok := varstore.Underlying(raw).(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	for _, fn := range shutdown {
		errs = append(errs, fn(ctx))
	}
	return errors.Join(errs...)
}

func (s *Service) installLocked(kind varstore.Kind) error {
	store, err := s.stores.Create(kind, varstore.Config{Redis: s.redis})
	if errors.Is(err, varstore.ErrInvalidArgument) {
		return invalidArgument(err)
	}
	if err != nil {
		return err
	}
	s.setLocked(kind, store)
	s.logger.Debug(context.Background(), "variable store installed",
		observe.Field{Key: "varstore.kind", Value: kind.String()},
	)
	return nil
}

func (s *Service) setLocked(kind varstore.Kind, raw varstore.Store) {
	if c, ok := varstore.Underlying(s.raw).(io.Closer); ok && s.raw != raw {
		_ = c.Close()
	}

	store := raw
	for _, d := range s.decorators {
		store = d(store)
	}
	s.kind, s.raw, s.store = kind, raw, store
}

// Ensure Service implements key.Resolver
var _ key.Resolver = (*Service)(nil)
