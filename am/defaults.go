package am

import (
	"github.com/spf13/viper"

	"github.com/teranos/ontograph/graph"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "ontograph.db")
	v.SetDefault("database.max_connections", 4)
	v.SetDefault("database.acquire_timeout_ms", 5000)

	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})
	v.SetDefault("server.requests_per_second", 50.0)
	v.SetDefault("server.burst", 100)

	v.SetDefault("query.max_resolve_depth", int(graph.DefaultMaxResolveDepth))

	v.SetDefault("domain.type_id_pattern", "")
	v.SetDefault("min_version", "")
}

// BindEnvVars binds keys whose environment names do not follow the
// automatic ONTOGRAPH_SECTION_KEY mapping.
func BindEnvVars(v *viper.Viper) {
	// DB_PATH is honoured for parity with local dev scripts
	_ = v.BindEnv("database.path", EnvPrefix+"_DATABASE_PATH", "DB_PATH")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")
}
