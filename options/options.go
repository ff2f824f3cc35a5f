package options

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Well-known option names understood by the fragment helper and cachers.
const (
	ExpiresIn        = "expires_in"
	RaceConditionTTL = "race_condition_ttl"
	DisableCache     = "disable_cache"
)

// Map is a set of cache options keyed by name.
type Map map[string]any

// Clone returns a shallow copy. A nil Map clones to an empty one.
func (m Map) Clone() Map {
	out := make(Map, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge returns a copy of m overridden by other.
func (m Map) Merge(other Map) Map {
	out := m.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Bool reports whether the option is set to a truthy value.
// Accepts bool and strconv.ParseBool-compatible strings.
func (m Map) Bool(name string) bool {
	switch v := m[name].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	default:
		return false
	}
}

// Duration returns the option as a duration.
//
// time.Duration values are used as-is, integers and floats are seconds, and
// strings are parsed with time.ParseDuration.
func (m Map) Duration(name string) (time.Duration, bool) {
	switch v := m[name].(type) {
	case time.Duration:
		return v, true
	case int:
		return time.Duration(v) * time.Second, true
	case int64:
		return time.Duration(v) * time.Second, true
	case float64:
		return time.Duration(v * float64(time.Second)), true
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, false
		}
		return d, true
	default:
		return 0, false
	}
}

// OnMissing selects what Resolve returns when no candidate is registered.
type OnMissing int

const (
	// MissingEmpty returns an empty Map.
	MissingEmpty OnMissing = iota
	// MissingDefault returns a copy of the default options.
	MissingDefault
	// MissingNil returns nil.
	MissingNil
)

// String returns the policy name.
func (o OnMissing) String() string {
	switch o {
	case MissingDefault:
		return "default"
	case MissingNil:
		return "nil"
	default:
		return "empty"
	}
}

// ParseOnMissing parses a policy name. Unknown names map to MissingEmpty.
func ParseOnMissing(s string) OnMissing {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default":
		return MissingDefault
	case "nil":
		return MissingNil
	default:
		return MissingEmpty
	}
}

func blank(name string) bool {
	return strings.TrimSpace(name) == ""
}

func errBlankName(name string) error {
	return fmt.Errorf("%w: option set name %q is blank", ErrInvalidArgument, name)
}
