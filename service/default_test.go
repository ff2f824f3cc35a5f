package service

import (
	"context"
	"testing"

	"github.com/jonwraymond/cachekit/options"
)

func TestDefault_LazyAndReload(t *testing.T) {
	ctx := context.Background()
	prev := SetDefault(nil)
	t.Cleanup(func() { SetDefault(prev) })

	first := Default()
	if Default() != first {
		t.Fatal("Default must return the same service until reloaded")
	}

	first.RegisterKeyPrefix("p")
	if err := VariableSet(ctx, "k", "v"); err != nil {
		t.Fatalf("VariableSet: %v", err)
	}
	if got, err := Key(ctx, "s"); err != nil || got != "p/s" {
		t.Errorf("Key = %q, %v", got, err)
	}

	next, err := Reload(ctx, WithKeyPrefix("q"))
	if err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if next == first || Default() != next {
		t.Fatal("Reload must install a fresh service")
	}
	if _, ok, _ := VariableGet(ctx, "k"); ok {
		t.Error("reloaded service must not see old variables")
	}
	if got, _ := Key(ctx, "s"); got != "q/s" {
		t.Errorf("Key after reload = %q", got)
	}
}

func TestDefault_Helpers(t *testing.T) {
	ctx := context.Background()
	prev := SetDefault(New())
	t.Cleanup(func() { SetDefault(prev) })

	Default().RegisterDefaultOptions(options.Map{"a": 1})
	if got := Options(options.MissingDefault, "missing"); got["a"] != 1 {
		t.Errorf("Options = %v", got)
	}
	if Digest("x") != Default().Digest("x") {
		t.Error("Digest helper mismatch")
	}
	v, ok, err := VariableGetOrCompute(ctx, "n", func(context.Context) (any, error) { return 3, nil })
	if err != nil || !ok || v != "3" {
		t.Errorf("VariableGetOrCompute = %q, %v, %v", v, ok, err)
	}
}
