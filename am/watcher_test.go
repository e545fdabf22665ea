package am

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/ontograph/errors"
)

func newTestWatcher(t *testing.T, path string) (*ConfigWatcher, chan *Config) {
	t.Helper()
	cw, err := NewConfigWatcher([]string{path}, func() (*Config, error) {
		return LoadFromFile(path)
	}, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	cw.SetDebounce(10 * time.Millisecond)

	reloaded := make(chan *Config, 4)
	cw.OnReload(func(cfg *Config) error {
		reloaded <- cfg
		return nil
	})
	cw.Start()
	t.Cleanup(func() { _ = cw.Stop() })
	return cw, reloaded
}

func TestConfigWatcher_Reloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	writeFile(t, path, "[server]\nrequests_per_second = 5.0\nburst = 5\n")

	cw, reloaded := newTestWatcher(t, path)
	// a failing subscriber registered later must not block the earlier one
	cw.OnReload(func(*Config) error {
		return errors.New("subscriber failed")
	})

	writeFile(t, path, "[server]\nrequests_per_second = 20.0\nburst = 40\n")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 20.0, cfg.Server.RequestsPerSecond)
		assert.Equal(t, 40, cfg.Server.Burst)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestConfigWatcher_IgnoresOwnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	writeFile(t, path, "[server]\nport = 9000\n")

	cw, reloaded := newTestWatcher(t, path)
	SetGlobalWatcher(cw)
	t.Cleanup(func() { SetGlobalWatcher(nil) })

	// SetValue marks the write as ours before touching the file
	require.NoError(t, SetValue(path, "server.port", "9001"))

	select {
	case cfg := <-reloaded:
		t.Fatalf("own write triggered reload to port %d", cfg.Server.Port)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestConfigWatcher_RejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	writeFile(t, path, "[server]\nport = 9000\n")

	_, reloaded := newTestWatcher(t, path)
	writeFile(t, path, "[database]\nmax_connections = 0\n")

	select {
	case <-reloaded:
		t.Fatal("invalid config reached subscribers")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestConfigWatcher_RequiresPaths(t *testing.T) {
	_, err := NewConfigWatcher(nil, ReloadFromSources, zaptest.NewLogger(t).Sugar())
	assert.Error(t, err)
}

func TestIsBackupFile(t *testing.T) {
	assert.True(t, isBackupFile("/home/u/.ontograph/am.toml.back1"))
	assert.True(t, isBackupFile("am.toml.back3"))
	assert.False(t, isBackupFile("am.toml"))
}
