package digest

import (
	"bytes"
	"crypto/sha1" // #nosec G505 -- content fingerprint, not a security boundary.
	"encoding/hex"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// identifier mirrors key.Identifier without importing it.
type identifier interface {
	CacheKey() string
}

// Sum returns the lowercase hex SHA-1 of Canonical(v).
func Sum(v any) string {
	h := sha1.Sum([]byte(Canonical(v))) // #nosec G401
	return hex.EncodeToString(h[:])
}

// Canonical returns the deterministic string form of v.
//
// Strings and byte slices render verbatim. Everything else renders as JSON
// with map keys sorted. Maps whose keys stringify alike (1 and "1") render
// as a sorted list of [type-qualified key, value] pairs. A reference back
// into a map, slice or pointer being rendered becomes "<cycle>". Values JSON
// cannot represent fall back to %v.
func Canonical(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case identifier:
		if !isNilPointer(reflect.ValueOf(v)) {
			return val.CacheKey()
		}
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Chan, reflect.Func, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return fmt.Sprintf("%v", v)
	}
	var w walker
	return string(w.value(reflect.ValueOf(v)))
}

var (
	nullJSON   = []byte("null")
	cycleJSON  = []byte(`"<cycle>"`)
	emptyArray = []byte("[]")
)

// visit identifies a reference-typed value on the current path.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type walker struct {
	path map[visit]struct{}
}

// enter reports false when rv is already being rendered further up.
func (w *walker) enter(rv reflect.Value) (visit, bool) {
	key := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		key.len = rv.Len()
	}
	if _, ok := w.path[key]; ok {
		return key, false
	}
	if w.path == nil {
		w.path = make(map[visit]struct{})
	}
	w.path[key] = struct{}{}
	return key, true
}

func (w *walker) value(rv reflect.Value) []byte {
	for rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() || isNilPointer(rv) || rv.Kind() == reflect.Interface {
		return nullJSON
	}
	if rv.CanInterface() {
		switch val := rv.Interface().(type) {
		case identifier:
			return quote(val.CacheKey())
		case json.Marshaler:
			return marshal(rv)
		}
	}

	switch rv.Kind() {
	case reflect.Pointer:
		key, ok := w.enter(rv)
		if !ok {
			return cycleJSON
		}
		defer delete(w.path, key)
		return w.value(rv.Elem())
	case reflect.Map:
		if rv.IsNil() {
			return []byte("{}")
		}
		key, ok := w.enter(rv)
		if !ok {
			return cycleJSON
		}
		defer delete(w.path, key)
		return w.mapValue(rv)
	case reflect.Slice:
		if rv.IsNil() {
			if rv.Type().Elem().Kind() == reflect.Interface {
				return emptyArray
			}
			return nullJSON
		}
		key, ok := w.enter(rv)
		if !ok {
			return cycleJSON
		}
		defer delete(w.path, key)
		return w.sequence(rv)
	case reflect.Array:
		return w.sequence(rv)
	}
	return marshal(rv)
}

type entry struct {
	key       string
	qualified string
	val       []byte
}

func (w *walker) mapValue(rv reflect.Value) []byte {
	entries := make([]entry, 0, rv.Len())
	seen := make(map[string]struct{}, rv.Len())
	collide := false
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		e := entry{key: keyString(k), val: w.value(iter.Value())}
		e.qualified = k.Type().String() + ":" + e.key
		if k.Kind() == reflect.Interface && !k.IsNil() {
			e.qualified = k.Elem().Type().String() + ":" + e.key
		}
		if _, dup := seen[e.key]; dup {
			collide = true
		}
		seen[e.key] = struct{}{}
		entries = append(entries, e)
	}

	if collide {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].qualified != entries[j].qualified {
				return entries[i].qualified < entries[j].qualified
			}
			return bytes.Compare(entries[i].val, entries[j].val) < 0
		})
		result := []byte("[")
		for i, e := range entries {
			if i > 0 {
				result = append(result, ',')
			}
			result = append(result, '[')
			result = append(result, quote(e.qualified)...)
			result = append(result, ',')
			result = append(result, e.val...)
			result = append(result, ']')
		}
		return append(result, ']')
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	result := []byte("{")
	for i, e := range entries {
		if i > 0 {
			result = append(result, ',')
		}
		result = append(result, quote(e.key)...)
		result = append(result, ':')
		result = append(result, e.val...)
	}
	return append(result, '}')
}

func (w *walker) sequence(rv reflect.Value) []byte {
	result := []byte("[")
	for i := range rv.Len() {
		if i > 0 {
			result = append(result, ',')
		}
		result = append(result, w.value(rv.Index(i))...)
	}
	return append(result, ']')
}

func keyString(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if !k.CanInterface() {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}

// marshal renders a leaf with encoding/json. Structs JSON rejects render as
// their type name, since %v would walk the same unsupported content.
func marshal(rv reflect.Value) []byte {
	if !rv.CanInterface() {
		return quote(rv.Type().String())
	}
	v := rv.Interface()
	b, err := json.Marshal(v)
	if err == nil {
		return b
	}
	if rv.Kind() == reflect.Struct {
		return quote(fmt.Sprintf("%T", v))
	}
	return quote(fmt.Sprintf("%v", v))
}

func quote(s string) []byte {
	b, _ := json.Marshal(s)
	return b
}

func isNilPointer(rv reflect.Value) bool {
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
