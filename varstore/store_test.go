package varstore

import (
	"errors"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"memory", KindMemory, false},
		{"internal", KindMemory, false},
		{"", 0, true},
		{"  ", 0, true},
		{" Redis ", KindRedis, false},
		{"memcached", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("ParseKind(%q) error = %v, want ErrInvalidArgument", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestKind_String(t *testing.T) {
	if KindMemory.String() != "memory" || KindRedis.String() != "redis" {
		t.Errorf("unexpected kind names: %s %s", KindMemory, KindRedis)
	}
	if Kind(9).String() != "kind(9)" {
		t.Errorf("Kind(9).String() = %s", Kind(9))
	}
}

func TestStringify(t *testing.T) {
	s := "ptr"
	var nilPtr *int
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "x", "x"},
		{"nil", nil, ""},
		{"int", 12, "12"},
		{"float", 0.25, "0.25"},
		{"bool", false, "false"},
		{"stringer", time.Duration(1500) * time.Millisecond, "1.5s"},
		{"error", errors.New("bad"), "bad"},
		{"map", map[string]int{"b": 2, "a": 1}, `{"a":1,"b":2}`},
		{"pointer", &s, "ptr"},
		{"nil pointer", nilPtr, ""},
		{"nil stringer pointer", (*time.Time)(nil), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stringify(tt.in); got != tt.want {
				t.Errorf("Stringify(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestStoreError(t *testing.T) {
	cause := errors.New("connection refused")
	err := storeErr("get", "k", cause)

	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("errors.Is(err, ErrStoreUnavailable) = false")
	}
	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(err, cause) = false")
	}
	if got := err.Error(); got != `varstore: get "k": connection refused` {
		t.Errorf("Error() = %q", got)
	}
	if got := storeErr("scan", "", cause).Error(); got != "varstore: scan: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}
