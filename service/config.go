package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/cachekit/observe"
	"github.com/jonwraymond/cachekit/options"
	"github.com/jonwraymond/cachekit/resilience"
	"github.com/jonwraymond/cachekit/secret"
	"github.com/jonwraymond/cachekit/varstore"
)

// Config is the file form of a Service.
type Config struct {
	KeyPrefix      string                 `yaml:"key_prefix"`
	DefaultOptions options.Map            `yaml:"default_options"`
	Options        map[string]options.Map `yaml:"options" validate:"dive,keys,required,endkeys"`
	Store          StoreConfig            `yaml:"store"`
	Secrets        SecretsConfig          `yaml:"secrets"`
	Resilience     ResilienceConfig       `yaml:"resilience"`

	// Telemetry enables tracing, metrics and logging of store calls.
	Telemetry *observe.Config `yaml:"telemetry"`
}

// StoreConfig selects and configures the variable store.
type StoreConfig struct {
	Kind  string      `yaml:"kind" validate:"omitempty,oneof=memory internal redis"`
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis variable store. URL, Addr, Username and
// Password accept ${ENV} and secretref: references.
type RedisConfig struct {
	URL          string        `yaml:"url" validate:"omitempty,excluded_with=Addr"`
	Addr         string        `yaml:"addr"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db" validate:"min=0,max=15"`
	Prefix       string        `yaml:"prefix"`
	DialTimeout  time.Duration `yaml:"dial_timeout" validate:"min=0"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"min=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"min=0"`
}

// SecretsConfig selects the secret providers used for redis credentials.
type SecretsConfig struct {
	// Providers names providers from secret.DefaultRegistry.
	// Default: ["env"]
	Providers []string `yaml:"providers" validate:"dive,oneof=env file"`

	// FileDir is the base directory for relative file references.
	FileDir string `yaml:"file_dir"`
}

// ResilienceConfig hardens a redis store.
type ResilienceConfig struct {
	Enabled     bool          `yaml:"enabled"`
	Timeout     time.Duration `yaml:"timeout" validate:"min=0"`
	MaxAttempts int           `yaml:"max_attempts" validate:"min=0,max=10"`
	// BreakerRatio is the failure ratio that opens the breaker; zero
	// disables the breaker.
	BreakerRatio float64       `yaml:"breaker_ratio" validate:"min=0,max=1"`
	BreakerOpen  time.Duration `yaml:"breaker_open" validate:"min=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig decodes YAML from r and validates it. Unknown fields are
// rejected. Empty input yields the zero Config.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, invalidArgument(fmt.Errorf("service: decode config: %w", err))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and the telemetry section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			err = errors.New(strings.Join(msgs, "; "))
		}
		return invalidArgument(fmt.Errorf("service: invalid config: %w", err))
	}
	if c.Telemetry != nil {
		if err := c.Telemetry.Validate(); err != nil {
			return invalidArgument(err)
		}
	}
	return nil
}

// NewFromConfig builds a Service from cfg. A nil resolver is built from
// cfg.Secrets. Options are applied after the configured ones.
func NewFromConfig(ctx context.Context, cfg Config, resolver *secret.Resolver, opts ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	kind := varstore.KindMemory
	var err error
	if cfg.Store.Kind != "" {
		if kind, err = varstore.ParseKind(cfg.Store.Kind); err != nil {
			return nil, invalidArgument(err)
		}
	}

	if resolver == nil {
		if resolver, err = cfg.Secrets.resolver(); err != nil {
			return nil, invalidArgument(err)
		}
		defer resolver.Close()
	}
	redisOpts, err := cfg.Store.Redis.options(ctx, resolver)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithKeyPrefix(cfg.KeyPrefix),
		WithStoreKind(kind),
		WithRedisOptions(redisOpts),
		WithRedisPrefix(cfg.Store.Redis.Prefix),
	}

	var shutdown func(context.Context) error
	if cfg.Telemetry != nil {
		obs, err := observe.NewObserver(ctx, *cfg.Telemetry)
		if err != nil {
			return nil, err
		}
		mw, err := obs.Middleware()
		if err != nil {
			_ = obs.Shutdown(ctx)
			return nil, err
		}
		shutdown = obs.Shutdown
		base = append(base, WithLogger(obs.Logger()), WithStoreDecorator(Instrumented(mw)))
	}
	if cfg.Resilience.Enabled {
		base = append(base, WithStoreDecorator(Hardened(cfg.Resilience.storeConfig())))
	}

	svc := New(append(base, opts...)...)
	if shutdown != nil {
		svc.shutdown = append(svc.shutdown, shutdown)
	}

	if cfg.DefaultOptions != nil {
		svc.RegisterDefaultOptions(cfg.DefaultOptions)
	}
	for name, m := range cfg.Options {
		if err := svc.RegisterOptions(name, m); err != nil {
			_ = svc.Close(ctx)
			return nil, err
		}
	}
	return svc, nil
}

func (c SecretsConfig) resolver() (*secret.Resolver, error) {
	names := c.Providers
	if len(names) == 0 {
		names = []string{"env"}
	}
	return secret.DefaultRegistry.NewResolver(names, map[string]map[string]any{
		"file": {"dir": c.FileDir},
	})
}

// options resolves references and builds go-redis options. A URL takes
// precedence over the discrete fields it encodes.
func (c RedisConfig) options(ctx context.Context, resolver *secret.Resolver) (*redis.Options, error) {
	resolve := func(field, v string) (string, error) {
		if v == "" {
			return "", nil
		}
		out, err := resolver.ResolveValue(ctx, v)
		if err != nil {
			return "", invalidArgument(fmt.Errorf("service: redis %s: %w", field, err))
		}
		return out, nil
	}

	var opts *redis.Options
	if c.URL != "" {
		url, err := resolve("url", c.URL)
		if err != nil {
			return nil, err
		}
		if opts, err = redis.ParseURL(url); err != nil {
			return nil, invalidArgument(fmt.Errorf("service: redis url: %w", err))
		}
	} else {
		addr, err := resolve("addr", c.Addr)
		if err != nil {
			return nil, err
		}
		opts = &redis.Options{Addr: addr, DB: c.DB}
	}

	username, err := resolve("username", c.Username)
	if err != nil {
		return nil, err
	}
	password, err := resolve("password", c.Password)
	if err != nil {
		return nil, err
	}
	if username != "" {
		opts.Username = username
	}
	if password != "" {
		opts.Password = password
	}
	if c.DialTimeout > 0 {
		opts.DialTimeout = c.DialTimeout
	}
	if c.ReadTimeout > 0 {
		opts.ReadTimeout = c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		opts.WriteTimeout = c.WriteTimeout
	}
	return opts, nil
}

func (c ResilienceConfig) storeConfig() resilience.StoreConfig {
	cfg := resilience.StoreConfig{
		Timeout: c.Timeout,
		Retry:   &resilience.RetryConfig{MaxAttempts: c.MaxAttempts, Jitter: true},
	}
	if c.BreakerRatio > 0 {
		cfg.Breaker = &resilience.BreakerConfig{
			Name:         "variables",
			FailureRatio: c.BreakerRatio,
			Timeout:      c.BreakerOpen,
		}
	}
	return cfg
}
