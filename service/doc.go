// Package service is the cachekit facade.
//
// A Service owns the three pieces of process state the key builder depends
// on: the key prefix, the option registry and the active variable store.
// Construct one per process (or per test) with New or NewFromConfig, or use
// the lazily created process default through Default and the package-level
// helpers.
//
//	svc := service.New(service.WithKeyPrefix("views"))
//	_ = svc.RegisterOptions("short", options.Map{options.ExpiresIn: time.Minute})
//
//	k, err := svc.Key(ctx, "product", product, key.DigestRequest{Variables: []string{"catalog_version"}})
//	opts := svc.Options(options.MissingDefault, "product", "short")
//
// Registration methods are safe for concurrent use. Invalid arguments match
// ErrInvalidArgument; remote store failures match ErrStoreUnavailable and are
// returned unchanged.
package service
