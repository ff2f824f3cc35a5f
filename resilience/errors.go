package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrMaxRetriesExceeded is joined with the last error once every
	// attempt has failed.
	ErrMaxRetriesExceeded = errors.New("resilience: max retries exceeded")

	// ErrNilStore indicates NewStore was given a nil store.
	ErrNilStore = errors.New("resilience: store is nil")
)
