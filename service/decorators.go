package service

import (
	"github.com/jonwraymond/cachekit/observe"
	"github.com/jonwraymond/cachekit/resilience"
	"github.com/jonwraymond/cachekit/varstore"
)

// Instrumented returns a decorator recording telemetry for every store call.
func Instrumented(mw *observe.Middleware) StoreDecorator {
	return func(store varstore.Store) varstore.Store {
		decorated, err := observe.InstrumentStore(store, mw)
		if err != nil {
			return store
		}
		return decorated
	}
}

// Hardened returns a decorator adding timeout, retry and breaker to remote
// stores. In-process stores are returned unchanged.
func Hardened(cfg resilience.StoreConfig) StoreDecorator {
	return func(store varstore.Store) varstore.Store {
		if store.Kind() == varstore.KindMemory {
			return store
		}
		decorated, err := resilience.NewStore(store, cfg)
		if err != nil {
			return store
		}
		return decorated
	}
}
