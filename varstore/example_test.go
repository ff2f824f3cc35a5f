package varstore_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/cachekit/varstore"
)

func ExampleMemory() {
	store := varstore.NewMemory()
	ctx := context.Background()

	_, ok, _ := store.Get(ctx, "catalog_version")
	fmt.Println("set before:", ok)

	v, _, _ := store.GetOrCompute(ctx, "catalog_version", func(context.Context) (any, error) {
		return 3, nil
	})
	fmt.Println("computed:", v)

	_ = store.Set(ctx, "catalog_version", 4)
	v, _, _ = store.Get(ctx, "catalog_version")
	fmt.Println("after set:", v)
	// Output:
	// set before: false
	// computed: 3
	// after set: 4
}

func ExampleParseKind() {
	kind, err := varstore.ParseKind("internal")
	fmt.Println(kind, err)

	_, err = varstore.ParseKind("memcached")
	fmt.Println(err)
	// Output:
	// memory <nil>
	// varstore: invalid argument: unknown variable store kind "memcached"
}
