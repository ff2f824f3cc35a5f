package key

import (
	"net/http"
	"reflect"
)

// Identifier is implemented by values that carry their own cache identity,
// typically domain models ("products/42-20240101120000").
type Identifier interface {
	CacheKey() string
}

// Pather is a request-like value exposing its path.
type Pather interface {
	Path() string
}

// RequestPath adapts a plain path string to Pather.
type RequestPath string

// Path returns the path.
func (p RequestPath) Path() string { return string(p) }

// HTTPRequest adapts an *http.Request to Pather using its URL path.
func HTTPRequest(r *http.Request) Pather {
	if r == nil || r.URL == nil {
		return RequestPath("")
	}
	return RequestPath(r.URL.Path)
}

// DigestRequest asks for one digested segment built from up to three
// sub-parts: Value, the current values of Variables, and Request's path.
// Absent sub-parts are skipped; a request with none contributes no segment.
type DigestRequest struct {
	// Value is digested as-is when not blank.
	Value any

	// Variables names variables whose current values are digested as a map
	// of name to value (nil when unset).
	Variables []string

	// Request contributes [Parameterize(path), path] when its path is not empty.
	Request Pather
}

// Map keys recognized as a digest request.
const (
	mapDigestKey    = "digest"
	mapVariablesKey = "variables"
	mapRequestKey   = "request"
)

// PartKind tags the interpretation chosen for an argument.
type PartKind int

const (
	// PartLiteral is used verbatim in its string form.
	PartLiteral PartKind = iota
	// PartModel resolves to Identifier.CacheKey().
	PartModel
	// PartDigest resolves to the digest of a DigestRequest.
	PartDigest
)

// String returns the kind name.
func (k PartKind) String() string {
	switch k {
	case PartModel:
		return "model"
	case PartDigest:
		return "digest"
	default:
		return "literal"
	}
}

// Part is a classified key argument. Only the field matching Kind is set.
type Part struct {
	Kind    PartKind
	Literal any
	Model   Identifier
	Digest  DigestRequest
}

// Classify picks the interpretation of arg: Model, then Digest, then Literal.
func Classify(arg any) Part {
	if isNil(arg) {
		return Part{Kind: PartLiteral}
	}

	if id, ok := arg.(Identifier); ok {
		return Part{Kind: PartModel, Model: id}
	}

	switch v := arg.(type) {
	case DigestRequest:
		return Part{Kind: PartDigest, Digest: v}
	case *DigestRequest:
		return Part{Kind: PartDigest, Digest: *v}
	case map[string]any:
		if req, ok := digestRequestFromMap(v); ok {
			return Part{Kind: PartDigest, Digest: req}
		}
	}

	return Part{Kind: PartLiteral, Literal: arg}
}

func digestRequestFromMap(m map[string]any) (DigestRequest, bool) {
	value, hasDigest := m[mapDigestKey]
	vars, hasVars := m[mapVariablesKey]
	reqVal, hasReq := m[mapRequestKey]
	if !hasDigest && !hasVars && !hasReq {
		return DigestRequest{}, false
	}

	req := DigestRequest{Value: value}
	switch v := vars.(type) {
	case []string:
		req.Variables = v
	case string:
		req.Variables = []string{v}
	case []any:
		for _, name := range v {
			if s, ok := name.(string); ok {
				req.Variables = append(req.Variables, s)
			}
		}
	}
	switch v := reqVal.(type) {
	case Pather:
		req.Request = v
	case *http.Request:
		req.Request = HTTPRequest(v)
	case string:
		req.Request = RequestPath(v)
	}
	return req, true
}

// flatten expands []any and []string arguments in place, recursively.
func flatten(args []any) []any {
	out := make([]any, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case []any:
			out = append(out, flatten(v)...)
		case []string:
			for _, s := range v {
				out = append(out, s)
			}
		default:
			out = append(out, arg)
		}
	}
	return out
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
