package cache_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/cachekit/cache"
	"github.com/jonwraymond/cachekit/options"
	"github.com/jonwraymond/cachekit/service"
)

func ExampleFetch() {
	svc := service.New(service.WithKeyPrefix("views"))
	_ = svc.RegisterOptions("sidebar", options.Map{options.ExpiresIn: 10 * time.Minute})

	// A stand-in engine that only reports what it was asked to do.
	engine := cache.CacherFunc[string](func(ctx context.Context, key string, opts options.Map, body cache.Body[string]) (string, error) {
		ttl := cache.PolicyFromOptions(opts, time.Hour).EffectiveTTL(0)
		fmt.Println("cache", key, "for", ttl)
		return body(ctx)
	})

	html, err := cache.Fetch(context.Background(), svc, cache.Cacher[string](engine), "sidebar", []string{"sidebar"},
		func(context.Context) (string, error) { return "<nav/>", nil },
		"en")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(html)
	// Output:
	// cache views/sidebar/en for 10m0s
	// <nav/>
}
