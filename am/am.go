// Package am loads, validates, persists and watches ontograph configuration.
//
// Sources are merged lowest to highest: built-in defaults, /etc/ontograph/am.toml,
// ~/.ontograph/am.toml, the nearest project am.toml, then ONTOGRAPH_* environment
// variables.
package am

import (
	"time"

	"github.com/teranos/ontograph/server"
)

const (
	// DefaultServerPort is the HTTP port used when server.port is omitted.
	DefaultServerPort = 4677

	// DefaultDirPermissions is used for ~/.ontograph.
	DefaultDirPermissions = 0750

	// EnvPrefix prefixes every environment override, e.g. ONTOGRAPH_SERVER_PORT.
	EnvPrefix = "ONTOGRAPH"
)

// Config is the full ontograph configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database" yaml:"database" json:"database"`
	Server   ServerConfig   `mapstructure:"server" toml:"server" yaml:"server" json:"server"`
	Query    QueryConfig    `mapstructure:"query" toml:"query" yaml:"query" json:"query"`
	Domain   DomainConfig   `mapstructure:"domain" toml:"domain" yaml:"domain" json:"domain"`

	// MinVersion is a semver constraint the running binary must satisfy.
	MinVersion string `mapstructure:"min_version" toml:"min_version,omitempty" yaml:"min_version,omitempty" json:"min_version,omitempty"`
}

// DatabaseConfig configures the SQLite store and its connection pool.
type DatabaseConfig struct {
	Path             string `mapstructure:"path" toml:"path" yaml:"path" json:"path"`
	MaxConnections   int    `mapstructure:"max_connections" toml:"max_connections" yaml:"max_connections" json:"max_connections"`
	AcquireTimeoutMS int    `mapstructure:"acquire_timeout_ms" toml:"acquire_timeout_ms" yaml:"acquire_timeout_ms" json:"acquire_timeout_ms"`
}

// AcquireTimeout returns the pool acquisition timeout.
func (d DatabaseConfig) AcquireTimeout() time.Duration {
	return time.Duration(d.AcquireTimeoutMS) * time.Millisecond
}

// ServerConfig configures the HTTP binding.
type ServerConfig struct {
	Port           int      `mapstructure:"port" toml:"port" yaml:"port" json:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" toml:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`

	// RequestsPerSecond of 0 disables rate limiting
	RequestsPerSecond float64 `mapstructure:"requests_per_second" toml:"requests_per_second" yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int     `mapstructure:"burst" toml:"burst" yaml:"burst" json:"burst"`
}

// QueryConfig bounds structural query execution.
type QueryConfig struct {
	// MaxResolveDepth clamps every requested resolve depth; 0 disables clamping
	MaxResolveDepth int `mapstructure:"max_resolve_depth" toml:"max_resolve_depth" yaml:"max_resolve_depth" json:"max_resolve_depth"`
}

// DomainConfig restricts which ontology type IDs may be written.
type DomainConfig struct {
	// TypeIDPattern is a regular expression ontology base IDs must match; empty allows any
	TypeIDPattern string `mapstructure:"type_id_pattern" toml:"type_id_pattern" yaml:"type_id_pattern" json:"type_id_pattern"`
}

// ServerSettings converts the server section into server.Config.
func (c *Config) ServerSettings() server.Config {
	return server.Config{
		Port:              c.Server.Port,
		AllowedOrigins:    c.Server.AllowedOrigins,
		RequestsPerSecond: c.Server.RequestsPerSecond,
		Burst:             c.Server.Burst,
	}
}
