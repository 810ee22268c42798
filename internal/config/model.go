// internal/config/model.go
//
// Typed configuration model for Loom.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                        – dotenv values,
//   • `conf/global.yaml`                     – primary static file,
//   • `LOOM_`-prefixed environment overrides – highest precedence.
//
// Validation happens immediately after unmarshal; the app fails fast if
// required fields are missing.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Database section
//

// Database holds the control-plane DSN.  The secret portion is normally
// injected via the env overlay so credentials stay out of flat files and
// git history.
type Database struct {
	DSN string `koanf:"dsn" validate:"required"`
}

//
// Resolver section
//

// Resolver tunes host → website resolution.  BaseDomain anchors the
// system-subdomain pattern (`<sub>.<base_domain>`); the cache knobs
// bound staleness and memory for the in-process host cache.
type Resolver struct {
	BaseDomain      string        `koanf:"base_domain" validate:"required,fqdn"`
	CacheIdleTTL    time.Duration `koanf:"cache_idle_ttl"`
	CacheVerifyTTL  time.Duration `koanf:"cache_verify_ttl"`
	CacheMaxEntries int           `koanf:"cache_max_entries"`
}

//
// Session section
//

// Session holds the HMAC secret for signed session cookies.  At least
// 32 bytes; rotate by restarting with a new value (outstanding sessions
// are invalidated, which is the intended effect of a rotation).
type Session struct {
	JWTSecret string `koanf:"jwt_secret" validate:"required,min=32"`
}

//
// Telemetry section
//

// Telemetry configures the optional request-enrichment inputs.  An empty
// GeoDBPath disables geolocation; UA parsing is always on.
type Telemetry struct {
	GeoDBPath string `koanf:"geo_db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or LOOM_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // LOOM_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Database  Database  `koanf:"database"`
	Resolver  Resolver  `koanf:"resolver"`
	Session   Session   `koanf:"session"`
	Telemetry Telemetry `koanf:"telemetry"`
	Paths     Paths     `koanf:"-"` // not loaded from config files
}
