// Package digest canonicalizes arbitrary values and hashes them.
//
// The canonical form is stable for identical logical content: maps render with
// sorted keys, sequences keep their order, and top-level strings render as-is.
// Sum returns the lowercase hex SHA-1 of that form and is the fixed-length
// stand-in used for complex cache key segments.
package digest
