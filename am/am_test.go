package am

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/ontograph/version"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// isolate points the home directory and working directory at empty temp dirs
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(project)
	Reset()
	t.Cleanup(Reset)
	return home, project
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "ontograph.db", cfg.Database.Path)
	assert.Equal(t, 4, cfg.Database.MaxConnections)
	assert.Equal(t, 5*time.Second, cfg.Database.AcquireTimeout())
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost")
	assert.Equal(t, 255, cfg.Query.MaxResolveDepth)
	assert.Empty(t, cfg.Domain.TypeIDPattern)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"zero connections", func(c *Config) { c.Database.MaxConnections = 0 }, "database.max_connections"},
		{"negative timeout", func(c *Config) { c.Database.AcquireTimeoutMS = -1 }, "database.acquire_timeout_ms"},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"rate limiting disabled", func(c *Config) { c.Server.RequestsPerSecond = 0; c.Server.Burst = 0 }, ""},
		{"negative rate", func(c *Config) { c.Server.RequestsPerSecond = -1 }, "server.requests_per_second"},
		{"missing burst", func(c *Config) { c.Server.Burst = 0 }, "server.burst"},
		{"depth clamping disabled", func(c *Config) { c.Query.MaxResolveDepth = 0 }, ""},
		{"depth too large", func(c *Config) { c.Query.MaxResolveDepth = 256 }, "query.max_resolve_depth"},
		{"bad pattern", func(c *Config) { c.Domain.TypeIDPattern = "(" }, "domain.type_id_pattern"},
		{"good pattern", func(c *Config) { c.Domain.TypeIDPattern = `^https://example\.com/` }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_MinVersion(t *testing.T) {
	saved := version.Version
	t.Cleanup(func() { version.Version = saved })

	cfg := Defaults()

	version.Version = "dev"
	cfg.MinVersion = ">= 9.0.0"
	assert.NoError(t, cfg.Validate(), "dev builds satisfy every constraint")

	version.Version = "1.4.0"
	cfg.MinVersion = ">= 1.2"
	assert.NoError(t, cfg.Validate())

	cfg.MinVersion = ">= 2.0"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not satisfy min_version")

	cfg.MinVersion = "not a constraint"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_version is not a valid constraint")
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	writeFile(t, path, `
[database]
path = "/var/lib/ontograph/graph.db"

[server]
port = 9000
allowed_origins = ["https://app.example.com"]
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/ontograph/graph.db", cfg.Database.Path)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 4, cfg.Database.MaxConnections, "unset keys keep defaults")

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_MergesUserAndProject(t *testing.T) {
	home, project := isolate(t)

	writeFile(t, filepath.Join(home, ".ontograph", "am.toml"), `
[database]
path = "user.db"
max_connections = 8

[server]
port = 7000
`)
	writeFile(t, filepath.Join(project, "am.toml"), `
[server]
port = 7100
`)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "user.db", cfg.Database.Path)
	assert.Equal(t, 8, cfg.Database.MaxConnections)
	assert.Equal(t, 7100, cfg.Server.Port, "project config wins over user config")

	again, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, again, "Load caches until Reset")
}

func TestLoad_EnvironmentWins(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, "am.toml"), "[server]\nport = 7100\n")
	t.Setenv("ONTOGRAPH_SERVER_PORT", "7200")
	t.Setenv("ONTOGRAPH_QUERY_MAX_RESOLVE_DEPTH", "3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7200, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Query.MaxResolveDepth)
}

func TestIntrospection_Sources(t *testing.T) {
	_, project := isolate(t)
	projectFile := filepath.Join(project, "am.toml")
	writeFile(t, projectFile, "[server]\nport = 7100\n")
	t.Setenv("ONTOGRAPH_DATABASE_PATH", "env.db")

	_, err := Load()
	require.NoError(t, err)

	settings := make(map[string]SettingInfo)
	for _, s := range GetConfigIntrospection().Settings {
		settings[s.Key] = s
	}

	assert.Equal(t, SourceProject, settings["server.port"].Source)
	assert.Equal(t, projectFile, settings["server.port"].SourcePath)
	assert.Equal(t, SourceEnvironment, settings["database.path"].Source)
	assert.Equal(t, "ONTOGRAPH_DATABASE_PATH", settings["database.path"].SourcePath)
	assert.Equal(t, SourceDefault, settings["server.burst"].Source)
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	writeFile(t, path, `
min_version = ">= 0.1"

[query]
max_resolve_depth = 12

[server]
port = 8088
rate = 3
`)

	cfg, unknown, err := DecodeFile(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Query.MaxResolveDepth)
	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, ">= 0.1", cfg.MinVersion)
	assert.Equal(t, "ontograph.db", cfg.Database.Path)
	assert.Equal(t, []string{"server.rate"}, unknown)

	writeFile(t, path, "[server\nport = ")
	_, _, err = DecodeFile(path)
	assert.Error(t, err)
}
