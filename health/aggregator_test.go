package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func fixed(name string, r Result) Checker {
	return NewCheckerFunc(name, func(context.Context) Result { return r })
}

func TestNewAggregator_Defaults(t *testing.T) {
	if got := NewAggregator().config.Timeout; got != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", got)
	}
	if got := NewAggregator(AggregatorConfig{MaxConcurrency: 2}).config.Timeout; got != 10*time.Second {
		t.Errorf("zero Timeout not defaulted: %v", got)
	}
}

func TestAggregator_RegisterOrder(t *testing.T) {
	agg := NewAggregator()
	agg.Register("b", fixed("b", Healthy("")))
	agg.Register("a", fixed("a", Healthy("")))
	agg.Register("b", fixed("b", Degraded("")))
	agg.Register("c", fixed("c", Healthy("")))
	agg.Unregister("a")

	if diff := cmp.Diff([]string{"b", "c"}, agg.CheckerNames()); diff != "" {
		t.Errorf("CheckerNames mismatch (-want +got):\n%s", diff)
	}
	r, err := agg.Check(context.Background(), "b")
	if err != nil || r.Status != StatusDegraded {
		t.Errorf("Check(b) = %v, %v; replacement not used", r.Status, err)
	}
	if _, err := agg.Check(context.Background(), "a"); !errors.Is(err, ErrCheckerNotFound) {
		t.Errorf("err = %v, want ErrCheckerNotFound", err)
	}
}

func TestAggregator_CheckAll(t *testing.T) {
	agg := NewAggregator()
	agg.Register("memory", fixed("memory", Healthy("in-process")))
	agg.Register("redis", fixed("redis", Unhealthy("down", errors.New("refused"))))

	results := agg.CheckAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results["redis"].Status != StatusUnhealthy {
		t.Errorf("redis = %v", results["redis"].Status)
	}
	if results["memory"].Duration < 0 {
		t.Errorf("memory duration = %v", results["memory"].Duration)
	}
	if got := agg.OverallStatus(results); got != StatusUnhealthy {
		t.Errorf("OverallStatus = %v, want unhealthy", got)
	}
}

func TestAggregator_CheckAllEmpty(t *testing.T) {
	agg := NewAggregator()
	results := agg.CheckAll(context.Background())
	if len(results) != 0 {
		t.Errorf("results = %v", results)
	}
	if agg.OverallStatus(results) != StatusHealthy {
		t.Error("empty aggregate should be healthy")
	}
}

func TestAggregator_MaxConcurrency(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{MaxConcurrency: 1})
	var running, peak atomic.Int32
	for _, name := range []string{"a", "b", "c", "d"} {
		agg.Register(name, NewCheckerFunc(name, func(context.Context) Result {
			n := running.Add(1)
			if n > peak.Load() {
				peak.Store(n)
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
			return Healthy("")
		}))
	}
	agg.CheckAll(context.Background())
	if peak.Load() != 1 {
		t.Errorf("peak concurrency = %d, want 1", peak.Load())
	}
}

func TestAggregator_Timeout(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{Timeout: 10 * time.Millisecond})
	release := make(chan struct{})
	defer close(release)
	agg.Register("stuck", NewCheckerFunc("stuck", func(context.Context) Result {
		<-release
		return Healthy("")
	}))

	r := agg.CheckAll(context.Background())["stuck"]
	if r.Status != StatusUnhealthy || !errors.Is(r.Error, ErrCheckTimeout) {
		t.Errorf("result = %+v, want timeout", r)
	}
}

func TestAggregator_OverallStatus(t *testing.T) {
	agg := NewAggregator()
	tests := []struct {
		name    string
		results map[string]Result
		want    Status
	}{
		{"all healthy", map[string]Result{"a": Healthy(""), "b": Healthy("")}, StatusHealthy},
		{"one degraded", map[string]Result{"a": Healthy(""), "b": Degraded("")}, StatusDegraded},
		{"unhealthy wins", map[string]Result{"a": Degraded(""), "b": Unhealthy("", nil)}, StatusUnhealthy},
	}
	for _, tt := range tests {
		if got := agg.OverallStatus(tt.results); got != tt.want {
			t.Errorf("%s: OverallStatus = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAggregator_AsChecker(t *testing.T) {
	agg := NewAggregator()
	agg.Register("a", fixed("a", Healthy("")))
	agg.Register("b", fixed("b", Degraded("slow")))

	c := agg.Checker()
	if c.Name() != "aggregate" {
		t.Errorf("Name = %q", c.Name())
	}
	r := c.Check(context.Background())
	if r.Status != StatusDegraded || r.Message != "some checks degraded" {
		t.Errorf("result = %v %q", r.Status, r.Message)
	}
	if got := r.Components["b"]; got.Status != StatusDegraded || got.Message != "slow" {
		t.Errorf("component b = %+v", got)
	}
}
