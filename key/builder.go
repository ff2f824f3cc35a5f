package key

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/jonwraymond/cachekit/digest"
)

// Separator joins key segments.
const Separator = "/"

// Resolver looks up the current value of a variable.
type Resolver interface {
	Variable(ctx context.Context, name string) (value string, ok bool, err error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, name string) (string, bool, error)

// Variable calls f.
func (f ResolverFunc) Variable(ctx context.Context, name string) (string, bool, error) {
	return f(ctx, name)
}

// Builder computes one cache key. It is cheap to create and meant to be
// discarded after Build.
type Builder struct {
	prefix string
	vars   Resolver
}

// NewBuilder creates a builder. An empty prefix adds no segment. A nil
// resolver treats every variable as unset.
func NewBuilder(prefix string, vars Resolver) *Builder {
	return &Builder{prefix: prefix, vars: vars}
}

// Build classifies args, resolves each to a segment, drops blank segments
// and joins the rest, prefix first, with Separator.
//
// Only variable lookups can fail; their errors are returned unchanged in
// the chain.
func (b *Builder) Build(ctx context.Context, args ...any) (string, error) {
	args = flatten(args)
	segments := make([]string, 0, len(args)+1)
	segments = append(segments, b.prefix)

	for _, arg := range args {
		seg, err := b.segment(ctx, Classify(arg))
		if err != nil {
			return "", err
		}
		segments = append(segments, seg)
	}

	clean := segments[:0]
	for _, seg := range segments {
		if strings.TrimSpace(seg) != "" {
			clean = append(clean, seg)
		}
	}
	return strings.Join(clean, Separator), nil
}

func (b *Builder) segment(ctx context.Context, p Part) (string, error) {
	switch p.Kind {
	case PartModel:
		return p.Model.CacheKey(), nil
	case PartDigest:
		return b.digestSegment(ctx, p.Digest)
	default:
		return literal(p.Literal), nil
	}
}

// digestSegment digests the present sub-parts of req in the fixed order
// value, variables, request. A single sub-part is digested alone.
func (b *Builder) digestSegment(ctx context.Context, req DigestRequest) (string, error) {
	parts := make([]any, 0, 3)

	if !blank(req.Value) {
		parts = append(parts, req.Value)
	}

	if len(req.Variables) > 0 {
		vars, err := b.variables(ctx, req.Variables)
		if err != nil {
			return "", err
		}
		parts = append(parts, vars)
	}

	if !isNil(req.Request) {
		if path := req.Request.Path(); path != "" {
			parts = append(parts, []any{Parameterize(path), path})
		}
	}

	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return digest.Sum(parts[0]), nil
	default:
		return digest.Sum(parts), nil
	}
}

func (b *Builder) variables(ctx context.Context, names []string) (map[string]any, error) {
	vars := make(map[string]any, len(names))
	for _, name := range names {
		vars[name] = nil
		if b.vars == nil {
			continue
		}
		value, ok, err := b.vars.Variable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("key: variable %q: %w", name, err)
		}
		if ok {
			vars[name] = value
		}
	}
	return vars, nil
}

func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// blank reports nil, false, whitespace-only strings and empty collections.
func blank(v any) bool {
	if isNil(v) {
		return true
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val) == ""
	case bool:
		return !val
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() == 0
	}
	return false
}
