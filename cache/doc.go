// Package cache connects cachekit to a caller-supplied cache engine.
//
// cachekit never stores cached content. It produces the two inputs a cache
// engine needs, a key and an options map, and hands them to a Cacher:
//
//	html, err := cache.Fetch(ctx, svc, engine, "product", []string{"product", "views"},
//	    func(ctx context.Context) (string, error) { return render(ctx, p) },
//	    p, locale)
//
// Options carrying a truthy disable_cache run the body directly.
package cache
