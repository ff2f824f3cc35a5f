package resilience_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/cachekit/resilience"
	"github.com/jonwraymond/cachekit/varstore"
)

func ExampleNewStore() {
	store, err := resilience.NewStore(varstore.NewMemory(), resilience.StoreConfig{
		Timeout: 100 * time.Millisecond,
		Retry:   &resilience.RetryConfig{MaxAttempts: 3},
		Breaker: &resilience.BreakerConfig{Name: "variables"},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	ctx := context.Background()
	v, _, _ := store.GetOrCompute(ctx, "build", func(context.Context) (any, error) {
		return 42, nil
	})
	fmt.Println(v, store.Breaker().State())
	// Output: 42 closed
}
