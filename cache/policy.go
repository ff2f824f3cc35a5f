package cache

import (
	"time"

	"github.com/jonwraymond/cachekit/options"
)

// Policy is a typed view of the TTL-related entries of an options map.
type Policy struct {
	// DefaultTTL comes from expires_in. Zero means the engine's default.
	DefaultTTL time.Duration

	// RaceConditionTTL comes from race_condition_ttl.
	RaceConditionTTL time.Duration

	// MaxTTL caps EffectiveTTL. Zero means no cap.
	MaxTTL time.Duration

	// Disabled comes from disable_cache.
	Disabled bool
}

// PolicyFromOptions reads a Policy from m. maxTTL is carried over unchanged.
func PolicyFromOptions(m options.Map, maxTTL time.Duration) Policy {
	p := Policy{MaxTTL: maxTTL, Disabled: m.Bool(options.DisableCache)}
	if d, ok := m.Duration(options.ExpiresIn); ok {
		p.DefaultTTL = d
	}
	if d, ok := m.Duration(options.RaceConditionTTL); ok {
		p.RaceConditionTTL = d
	}
	return p
}

// ShouldCache reports whether caching is enabled.
func (p Policy) ShouldCache() bool {
	return !p.Disabled
}

// EffectiveTTL returns override, or DefaultTTL when override is not
// positive, clamped to MaxTTL.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}
	return ttl
}
