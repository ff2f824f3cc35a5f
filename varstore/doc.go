// Package varstore provides the pluggable variable store used as a cache key
// ingredient.
//
// A variable is a named string value. Key construction reads variables and
// digests their current values, so changing a variable invalidates every key
// built from it without touching the cache itself.
//
// Two backends are provided:
//   - Memory: a process-local map.
//   - Redis: a prefixed key namespace on a Redis server (go-redis/v9).
//
// Backends are created through a Registry keyed by Kind. DefaultRegistry knows
// both built-in kinds.
//
// # Values
//
// Values are always stored and returned as strings. Set stringifies
// non-string inputs (see Stringify); Get returns the stored string verbatim.
// GetOrCompute runs its ComputeFunc at most once per missing name, persists
// the stringified result and returns it. An empty computed string is a value
// like any other and is reported as present on later reads by every backend.
//
// # Errors
//
// Failures from the remote client are returned as *StoreError, which matches
// ErrStoreUnavailable with errors.Is and unwraps to the client error. They are
// never retried or swallowed here; see package resilience for an opt-in
// decorator.
package varstore
