package secret

import (
	"errors"
	"strings"
	"testing"
)

func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache.internal")

	tests := []struct {
		in   string
		want string
	}{
		{"redis://${REDIS_HOST}:6379", "redis://cache.internal:6379"},
		{"$REDIS_HOST", "cache.internal"},
		{"$$${REDIS_HOST}", "$cache.internal"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		got, err := ExpandEnvStrict(tt.in)
		if err != nil {
			t.Fatalf("ExpandEnvStrict(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandEnvStrict(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandEnvStrict_Missing(t *testing.T) {
	t.Setenv("PRESENT", "ok")

	_, err := ExpandEnvStrict("${ZZ_MISSING} ${PRESENT} ${AA_MISSING} ${ZZ_MISSING}")
	if !errors.Is(err, ErrMissingEnv) {
		t.Fatalf("err = %v, want ErrMissingEnv", err)
	}
	if !strings.HasSuffix(err.Error(), "AA_MISSING, ZZ_MISSING") {
		t.Errorf("err = %q, want sorted unique names", err)
	}
}
