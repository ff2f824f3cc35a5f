package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/jonwraymond/cachekit/observe"
	"github.com/jonwraymond/cachekit/options"
	"github.com/jonwraymond/cachekit/resilience"
	"github.com/jonwraymond/cachekit/secret"
	"github.com/jonwraymond/cachekit/varstore"
)

const sampleConfig = `
key_prefix: views
default_options:
  expires_in: 1h
options:
  short:
    expires_in: 5m
    race_condition_ttl: 10
store:
  kind: redis
  redis:
    addr: ${CACHEKIT_TEST_REDIS_ADDR}
    password: secretref:env:CACHEKIT_TEST_REDIS_PASSWORD
    prefix: app
    dial_timeout: 2s
resilience:
  enabled: true
  max_attempts: 2
  breaker_ratio: 0.5
`

func TestLoadConfig(t *testing.T) {
	t.Setenv("CACHEKIT_TEST_REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.KeyPrefix != "views" || cfg.Store.Kind != "redis" || cfg.Store.Redis.DialTimeout != 2*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	want := map[string]options.Map{"short": {"expires_in": "5m", "race_condition_ttl": 10}}
	if diff := cmp.Diff(want, cfg.Options); diff != "" {
		t.Errorf("Options mismatch (-want +got):\n%s", diff)
	}
	if d, ok := cfg.Options["short"].Duration(options.ExpiresIn); !ok || d != 5*time.Minute {
		t.Errorf("expires_in = %v, %v", d, ok)
	}
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.KeyPrefix != "" || cfg.Store.Kind != "" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown field", "key_prefx: views\n"},
		{"bad kind", "store:\n  kind: memcached\n"},
		{"blank option name", "options:\n  \"\": {expires_in: 1}\n"},
		{"url and addr", "store:\n  redis:\n    url: redis://h:6379\n    addr: h:6379\n"},
		{"negative db", "store:\n  redis:\n    db: -1\n"},
		{"unknown secret provider", "secrets:\n  providers: [vault]\n"},
		{"breaker ratio", "resilience:\n  breaker_ratio: 2\n"},
		{"telemetry", "telemetry:\n  service_name: \"\"\n"},
		{"log level", "telemetry:\n  service_name: svc\n  logging:\n    enabled: true\n    level: loud\n"},
		{"not yaml", "key_prefix: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.yaml))
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("err = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestNewFromConfig_Redis(t *testing.T) {
	srv := miniredis.RunT(t)
	srv.RequireAuth("s3cr3t")
	t.Setenv("CACHEKIT_TEST_REDIS_ADDR", srv.Addr())
	t.Setenv("CACHEKIT_TEST_REDIS_PASSWORD", "s3cr3t")

	cfg, err := LoadConfig(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	ctx := context.Background()
	svc, err := NewFromConfig(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close(ctx) })

	if svc.KeyPrefix() != "views" {
		t.Errorf("KeyPrefix = %q", svc.KeyPrefix())
	}
	if got := svc.Options(options.MissingEmpty, "short"); got[options.ExpiresIn] != "5m" || got["race_condition_ttl"] != 10 {
		t.Errorf("Options = %v", got)
	}
	if err := svc.VariableSet(ctx, "k", "v"); err != nil {
		t.Fatalf("VariableSet: %v", err)
	}
	if raw, _ := srv.Get("app_k"); raw != "v" {
		t.Errorf("raw GET app_k = %q", raw)
	}

	store := svc.VariablesStore()
	if _, ok := store.(*resilience.Store); !ok {
		t.Errorf("store = %T, want resilience decorator", store)
	}
	if _, ok := varstore.Underlying(store).(*varstore.Redis); !ok {
		t.Errorf("underlying = %T", varstore.Underlying(store))
	}
}

func TestNewFromConfig_URL(t *testing.T) {
	srv := miniredis.RunT(t)
	t.Setenv("CACHEKIT_TEST_REDIS_URL", "redis://"+srv.Addr()+"/0")

	cfg := Config{Store: StoreConfig{Kind: "redis", Redis: RedisConfig{URL: "secretref:env:CACHEKIT_TEST_REDIS_URL"}}}
	ctx := context.Background()
	svc, err := NewFromConfig(ctx, cfg, secret.NewResolver(true, secret.EnvProvider{}))
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close(ctx) })

	if err := svc.VariableSet(ctx, "k", 1); err != nil {
		t.Fatalf("VariableSet: %v", err)
	}
	if raw, _ := srv.Get(varstore.DefaultRedisPrefix + "_k"); raw != "1" {
		t.Errorf("raw GET = %q", raw)
	}
}

func TestNewFromConfig_SecretErrors(t *testing.T) {
	ctx := context.Background()
	cfg := Config{Store: StoreConfig{Kind: "redis", Redis: RedisConfig{Password: "secretref:env:CACHEKIT_TEST_UNSET_PASSWORD"}}}
	if _, err := NewFromConfig(ctx, cfg, nil); !errors.Is(err, ErrInvalidArgument) || !errors.Is(err, secret.ErrNotFound) {
		t.Errorf("err = %v, want invalid argument wrapping secret.ErrNotFound", err)
	}

	cfg = Config{Store: StoreConfig{Redis: RedisConfig{URL: "http://not-redis"}}}
	if _, err := NewFromConfig(ctx, cfg, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("bad url: err = %v", err)
	}
}

func TestNewFromConfig_Telemetry(t *testing.T) {
	ctx := context.Background()
	cfg := Config{
		KeyPrefix: "p",
		Telemetry: &observe.Config{
			ServiceName: "cachekit-test",
			Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1},
			Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
		},
	}
	svc, err := NewFromConfig(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}

	if err := svc.VariableSet(ctx, "k", "v"); err != nil {
		t.Fatalf("VariableSet: %v", err)
	}
	if _, ok := svc.VariablesStore().(*varstore.Memory); ok {
		t.Error("telemetry config should instrument the store")
	}
	if err := svc.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
