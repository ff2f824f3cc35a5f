// Package resilience hardens a remote variable store.
//
// The variable store itself never retries: a failed round trip surfaces as
// varstore.ErrStoreUnavailable. Callers that want more opt in by decorating
// the store with NewStore, which runs every operation through a per-attempt
// timeout, a Retry and a Breaker:
//
//	store, err := resilience.NewStore(redisStore, resilience.StoreConfig{
//	    Timeout: 200 * time.Millisecond,
//	    Retry:   &resilience.RetryConfig{MaxAttempts: 3},
//	    Breaker: &resilience.BreakerConfig{Name: "variables"},
//	})
//
// Only store failures are retried or counted by the breaker. Errors from a
// compute function and cache misses pass through untouched.
package resilience
