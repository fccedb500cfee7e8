// internal/config/model.go
//
// Typed configuration model for cloudself.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `.env`                             – dotenv values,
//   • `conf/global.yaml`                          – primary static file,
//   • `CLOUDSELF_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through a SecretResolver *before* unmarshalling, so the model never
// stores Vault URIs, only plain strings.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • Durations accept Go syntax ("5s", "1m30s").
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr   string        `koanf:"listen_addr"    validate:"required,hostname_port"`
	ForceHTTPS   bool          `koanf:"force_https"`
	MaxBodyBytes int64         `koanf:"max_body_bytes" validate:"min=1"`
	CORSOrigins  []string      `koanf:"cors_origins"`
	ReadTimeout  time.Duration `koanf:"read_timeout"   validate:"min=0"`
	WriteTimeout time.Duration `koanf:"write_timeout"  validate:"min=0"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"   validate:"min=0"`
}

//
// Database section
//

// Database selects the record store and carries its connection settings.
//
// `DSN` is a template kept in YAML so operators can tweak host, port, or
// flags without touching Vault.  It holds at most one `%s` verb, which
// receives `Password` (usually a `vault:` reference) at connect time.
type Database struct {
	Driver          string        `koanf:"driver"            validate:"required,oneof=mysql postgres memory"`
	DSN             string        `koanf:"dsn"               validate:"required_unless=Driver memory,omitempty,dsn_template"`
	Password        string        `koanf:"password"`
	MaxOpenConns    int           `koanf:"max_open_conns"    validate:"min=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"    validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"min=0"`
	Migrate         bool          `koanf:"migrate"`
}

// ConnString fills the DSN template with Password.  A template without a
// verb is returned unchanged.
func (d Database) ConnString() string {
	if !strings.Contains(d.DSN, "%s") {
		return d.DSN
	}
	return fmt.Sprintf(d.DSN, d.Password)
}

//
// Auth section
//

// Auth names the header that identifies the caller.  Until real
// authentication exists every request without the header acts as
// DefaultUser.
type Auth struct {
	UserHeader  string `koanf:"user_header"  validate:"required"`
	DefaultUser string `koanf:"default_user" validate:"required"`
}

//
// Events section
//

// Events configures the Redis stream that receives lifecycle events.  An
// empty RedisAddr disables publishing.
type Events struct {
	RedisAddr     string `koanf:"redis_addr"     validate:"omitempty,hostname_port"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"       validate:"min=0"`
	Stream        string `koanf:"stream"         validate:"required_with=RedisAddr"`
	MaxLen        int64  `koanf:"max_len"        validate:"min=0"`
}

//
// Log section
//

// Log controls the zap logger.  Dir is relative to Paths.Root unless
// absolute.
type Log struct {
	Dir     string `koanf:"dir"`
	Level   string `koanf:"level"   validate:"omitempty,oneof=debug info warn error"`
	Console bool   `koanf:"console"`
}

//
// Provisioner section
//

// Provisioner is read by the development worker in cmd/provisioner.
// SiteDir receives one directory per website and ServeAddr serves them.
type Provisioner struct {
	BaseURL      string        `koanf:"base_url"      validate:"omitempty,url"`
	PollInterval time.Duration `koanf:"poll_interval" validate:"min=0"`
	Timeout      time.Duration `koanf:"timeout"       validate:"min=0"`
	SiteDir      string        `koanf:"site_dir"`
	ServeAddr    string        `koanf:"serve_addr"    validate:"omitempty,hostname_port"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // CLOUDSELF_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP        HTTP        `koanf:"http"`
	Database    Database    `koanf:"database"`
	Auth        Auth        `koanf:"auth"`
	Events      Events      `koanf:"events"`
	Log         Log         `koanf:"log"`
	Provisioner Provisioner `koanf:"provisioner"`
	Paths       Paths       `koanf:"-"`
}

// Abs resolves p against Paths.Root unless p is already absolute.  An
// empty p yields def resolved the same way.
func (c *Config) Abs(p, def string) string {
	if p == "" {
		p = def
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Paths.Root, p)
}
