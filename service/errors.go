package service

import (
	"errors"

	"github.com/jonwraymond/cachekit/varstore"
)

var (
	// ErrInvalidArgument matches every invalid-argument failure returned by
	// the facade, alongside the originating package's own sentinel.
	ErrInvalidArgument = errors.New("service: invalid argument")

	// ErrStoreUnavailable is varstore.ErrStoreUnavailable.
	ErrStoreUnavailable = varstore.ErrStoreUnavailable
)

// argError marks err as an invalid argument without hiding its chain.
type argError struct {
	err error
}

func (e *argError) Error() string { return e.err.Error() }

func (e *argError) Unwrap() error { return e.err }

func (e *argError) Is(target error) bool { return target == ErrInvalidArgument }

// invalidArgument tags err so it matches ErrInvalidArgument.
func invalidArgument(err error) error {
	if err == nil || errors.Is(err, ErrInvalidArgument) {
		return err
	}
	return &argError{err: err}
}
