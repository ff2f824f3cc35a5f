// Package key builds slash-delimited cache keys from heterogeneous arguments.
//
// Each argument is classified into exactly one Part, in priority order:
//
//  1. Model: the value implements Identifier; its CacheKey() is the segment.
//  2. Digest: the value is a DigestRequest (or a map with "digest",
//     "variables" or "request" keys); it becomes one SHA-1 segment combining
//     an explicit value, the current values of named variables, and a
//     request path.
//  3. Literal: anything else, in its string form.
//
// Slices of arguments are flattened. The builder prepends the key prefix,
// drops blank segments and joins the rest with "/":
//
//	b := key.NewBuilder("shop", vars)
//	k, err := b.Build(ctx, "product", product, key.DigestRequest{Variables: []string{"catalog_version"}})
//	// shop/product/products/42-20240101/5c1b...
package key
