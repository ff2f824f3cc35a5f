package varstore

import (
	"errors"
	"fmt"
)

// Sentinel errors for variable store operations.
var (
	// ErrInvalidArgument indicates an unknown store kind or a bad registration.
	ErrInvalidArgument = errors.New("varstore: invalid argument")

	// ErrStoreUnavailable indicates the backing store could not serve a request.
	ErrStoreUnavailable = errors.New("varstore: store unavailable")
)

// StoreError wraps a failure reported by a remote backend.
type StoreError struct {
	Op   string // get, set, scan, ping
	Name string // logical variable name, empty for scan/ping
	Err  error
}

func (e *StoreError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("varstore: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("varstore: %s %q: %v", e.Op, e.Name, e.Err)
}

// Unwrap returns the underlying client error.
func (e *StoreError) Unwrap() error { return e.Err }

// Is reports ErrStoreUnavailable for every StoreError.
func (e *StoreError) Is(target error) bool { return target == ErrStoreUnavailable }

func storeErr(op, name string, err error) error {
	return &StoreError{Op: op, Name: name, Err: err}
}
