package key_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/cachekit/key"
)

type product struct {
	id      int
	updated string
}

func (p product) CacheKey() string { return fmt.Sprintf("products/%d-%s", p.id, p.updated) }

func ExampleBuilder_Build() {
	b := key.NewBuilder("shop", nil)
	k, _ := b.Build(context.Background(), "product", product{id: 42, updated: "20240101"}, "sidebar")
	fmt.Println(k)
	// Output:
	// shop/product/products/42-20240101/sidebar
}

func ExampleParameterize() {
	fmt.Println(key.Parameterize("/Catálogo/Sale 2024?page=2"))
	// Output:
	// catalogo-sale-2024-page-2
}
