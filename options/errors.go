package options

import "errors"

// ErrInvalidArgument indicates a blank option set name.
var ErrInvalidArgument = errors.New("options: invalid argument")
