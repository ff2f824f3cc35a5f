package options_test

import (
	"fmt"
	"time"

	"github.com/jonwraymond/cachekit/options"
)

func ExampleRegistry_Resolve() {
	r := options.NewRegistry()
	r.RegisterDefault(options.Map{options.ExpiresIn: 5 * time.Minute})
	_ = r.Register("listing", options.Map{options.RaceConditionTTL: 4})

	fmt.Println(r.Resolve(options.MissingEmpty, "missing", "listing"))
	fmt.Println(r.Resolve(options.MissingDefault, "missing"))
	fmt.Println(r.Resolve(options.MissingNil, "missing") == nil)
	// Output:
	// map[expires_in:5m0s race_condition_ttl:4]
	// map[expires_in:5m0s]
	// true
}
