// Package secret resolves credentials in configuration values.
//
// Remote variable store settings (URL, address, password) may carry
// environment references and secret references instead of literal values:
//
//	${REDIS_PASSWORD}               strict environment expansion
//	secretref:env:REDIS_PASSWORD    resolved by the env provider
//	secretref:file:/run/secrets/rd  resolved by the file provider
//	redis://:secretref:env:PW@h:6379 inline reference inside a value
//
// Providers are created by name from a Registry. DefaultRegistry knows "env"
// and "file". Resolved values must never be logged.
package secret
