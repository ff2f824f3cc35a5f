package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonwraymond/cachekit/key"
	"github.com/jonwraymond/cachekit/options"
	"github.com/jonwraymond/cachekit/service"
)

// recordingCacher stores values in a map and records what it was given.
type recordingCacher struct {
	mu     sync.Mutex
	values map[string]string
	keys   []string
	opts   []options.Map
}

func newRecordingCacher() *recordingCacher {
	return &recordingCacher{values: make(map[string]string)}
}

func (c *recordingCacher) Cache(ctx context.Context, k string, opts options.Map, body Body[string]) (string, error) {
	c.mu.Lock()
	c.keys = append(c.keys, k)
	c.opts = append(c.opts, opts)
	v, ok := c.values[k]
	c.mu.Unlock()
	if ok {
		return v, nil
	}

	v, err := body(ctx)
	if err != nil {
		return v, err
	}
	c.mu.Lock()
	c.values[k] = v
	c.mu.Unlock()
	return v, nil
}

type article struct{ id string }

func (a article) CacheKey() string { return "articles/" + a.id }

func TestFetch_BuildsKeyAndOptions(t *testing.T) {
	ctx := context.Background()
	svc := service.New(service.WithKeyPrefix("views"))
	svc.RegisterDefaultOptions(options.Map{options.ExpiresIn: time.Hour})
	_ = svc.RegisterOptions("article", options.Map{options.ExpiresIn: time.Minute})

	c := newRecordingCacher()
	calls := 0
	body := func(context.Context) (string, error) {
		calls++
		return "<html>", nil
	}

	for range 2 {
		got, err := Fetch[string](ctx, svc, c, "show", []string{"missing", "article"}, body, article{"9"}, "en")
		if err != nil || got != "<html>" {
			t.Fatalf("Fetch = %q, %v", got, err)
		}
	}
	if calls != 1 {
		t.Errorf("body calls = %d, want 1", calls)
	}
	if c.keys[0] != "views/show/articles/9/en" {
		t.Errorf("key = %q", c.keys[0])
	}
	if d, _ := c.opts[0].Duration(options.ExpiresIn); d != time.Minute {
		t.Errorf("expires_in = %v, want 1m", d)
	}
}

func TestFetch_FallsBackToDefaultOptions(t *testing.T) {
	svc := service.New()
	svc.RegisterDefaultOptions(options.Map{options.ExpiresIn: time.Hour})
	c := newRecordingCacher()

	_, err := Fetch[string](context.Background(), svc, c, "p", []string{"unknown"}, func(context.Context) (string, error) {
		return "v", nil
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if d, _ := c.opts[0].Duration(options.ExpiresIn); d != time.Hour {
		t.Errorf("expires_in = %v, want default 1h", d)
	}
}

func TestFetch_DisableCache(t *testing.T) {
	svc := service.New()
	_ = svc.RegisterOptions("live", options.Map{options.DisableCache: true})

	c := CacherFunc[int](func(context.Context, string, options.Map, Body[int]) (int, error) {
		t.Fatal("cacher must not be called when disable_cache is set")
		return 0, nil
	})
	got, err := Fetch[int](context.Background(), svc, c, "p", []string{"live"}, func(context.Context) (int, error) {
		return 7, nil
	})
	if err != nil || got != 7 {
		t.Fatalf("Fetch = %d, %v", got, err)
	}
}

func TestFetch_BlankPrefix(t *testing.T) {
	for _, prefix := range []string{"", "  "} {
		_, err := Fetch[string](context.Background(), service.New(), newRecordingCacher(), prefix, nil, func(context.Context) (string, error) {
			return "", nil
		})
		if !errors.Is(err, service.ErrInvalidArgument) {
			t.Errorf("prefix %q: err = %v, want ErrInvalidArgument", prefix, err)
		}
	}
}

func TestFetch_NilCacher(t *testing.T) {
	_, err := Fetch[string](context.Background(), service.New(), nil, "p", nil, func(context.Context) (string, error) {
		return "", nil
	})
	if !errors.Is(err, service.ErrInvalidArgument) || !errors.Is(err, ErrNilCacher) {
		t.Errorf("err = %v", err)
	}
}

func TestFetch_BodyErrorNotCached(t *testing.T) {
	svc := service.New()
	c := newRecordingCacher()
	boom := errors.New("render failed")

	if _, err := Fetch[string](context.Background(), svc, c, "p", nil, func(context.Context) (string, error) {
		return "", boom
	}); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if len(c.values) != 0 {
		t.Errorf("error result was cached: %v", c.values)
	}
}

func TestFetch_VariablesInKey(t *testing.T) {
	ctx := context.Background()
	svc := service.New()
	c := newRecordingCacher()
	body := func(context.Context) (string, error) { return "x", nil }
	params := key.DigestRequest{Variables: []string{"catalog_version"}}

	_ = svc.VariableSet(ctx, "catalog_version", 1)
	_, _ = Fetch[string](ctx, svc, c, "list", nil, body, params)
	_ = svc.VariableSet(ctx, "catalog_version", 2)
	_, _ = Fetch[string](ctx, svc, c, "list", nil, body, params)

	if len(c.keys) != 2 || c.keys[0] == c.keys[1] {
		t.Errorf("bumping a variable must change the key: %v", c.keys)
	}
}

func TestFetch_DefaultService(t *testing.T) {
	prev := service.SetDefault(service.New(service.WithKeyPrefix("d")))
	t.Cleanup(func() { service.SetDefault(prev) })

	c := newRecordingCacher()
	_, err := Fetch[string](context.Background(), nil, c, "p", nil, func(context.Context) (string, error) {
		return "v", nil
	})
	if err != nil || c.keys[0] != "d/p" {
		t.Errorf("Fetch = %v, keys %v", err, c.keys)
	}
}
