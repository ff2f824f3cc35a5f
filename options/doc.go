// Package options holds named cache option sets merged over a default set.
//
// A Registry keeps one default Map and any number of named Maps. Resolve scans
// candidate names in order and returns the defaults merged with the first
// registered set; when none is registered, the OnMissing policy decides
// between an empty map, a copy of the defaults, or nil.
//
// Merges are shallow and the named set wins on key overlap. Every Map handed
// out is a copy, so callers may mutate results freely.
package options
