// internal/config/validator.go
//
// Thin wrapper around go-playground/validator, plus cache-knob defaults.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Config` instance.  Any tag
// mismatch or validation error aborts startup, ensuring the binary never
// runs with partial, malformed, or missing configuration.
//
// The rules in play are `required` on the listen address, DSN, base
// domain, and session secret, `hostname_port`/`fqdn` format checks, and
// a 32-byte floor on the session secret.  Custom rules can be registered
// here as the configuration surface grows.

package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/loomsites/loom/internal/resolver"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// defaults
//

// applyDefaults fills the optional resolver-cache knobs so zero values in
// YAML mean "use the package defaults", not "disable".
func applyDefaults(c *Config) {
	if c.Resolver.CacheIdleTTL <= 0 {
		c.Resolver.CacheIdleTTL = resolver.IdleTTL
	}
	if c.Resolver.CacheVerifyTTL <= 0 {
		c.Resolver.CacheVerifyTTL = resolver.VerifyTTL
	}
	if c.Resolver.CacheMaxEntries <= 0 {
		c.Resolver.CacheMaxEntries = resolver.MaxEntries
	}
}

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
