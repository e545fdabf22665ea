package am

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/logger"
)

// ReloadCallback is called with the freshly loaded config after a change
type ReloadCallback func(*Config) error

// LoadFunc produces the configuration after a change is detected.
type LoadFunc func() (*Config, error)

// ConfigWatcher watches config files for changes and triggers reload callbacks
type ConfigWatcher struct {
	paths          []string
	load           LoadFunc
	watcher        *fsnotify.Watcher
	logger         *zap.SugaredLogger
	callbacks      []ReloadCallback
	mu             sync.RWMutex
	debounceTimer  *time.Timer
	debouncePeriod time.Duration

	ownWriteMu    sync.Mutex
	ownWriteUntil time.Time
}

// ownWriteGrace covers every event a single write produces (truncate, write, chmod).
const ownWriteGrace = time.Second

var (
	globalWatcher   *ConfigWatcher
	globalWatcherMu sync.Mutex
)

// NewConfigWatcher watches the directories holding paths and reloads through
// load when one of the files changes. Directories are watched rather than the
// files so editors that replace files atomically are still seen.
func NewConfigWatcher(paths []string, load LoadFunc, log *zap.SugaredLogger) (*ConfigWatcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no config files to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	watched := make(map[string]bool)
	for _, p := range paths {
		dir := filepath.Dir(p)
		if watched[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, errors.Wrapf(err, "failed to watch config directory %s", dir)
		}
		watched[dir] = true
	}

	return &ConfigWatcher{
		paths:          paths,
		load:           load,
		watcher:        watcher,
		logger:         log.Named("am.watcher"),
		debouncePeriod: 500 * time.Millisecond,
	}, nil
}

// OnReload registers a callback to be called when config is reloaded
func (cw *ConfigWatcher) OnReload(callback ReloadCallback) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.callbacks = append(cw.callbacks, callback)
}

// SetDebounce overrides the quiet period between a change and the reload.
func (cw *ConfigWatcher) SetDebounce(d time.Duration) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.debouncePeriod = d
}

// MarkOwnWrite suppresses reloads for the write about to happen (prevents reload loops)
func (cw *ConfigWatcher) MarkOwnWrite() {
	cw.ownWriteMu.Lock()
	defer cw.ownWriteMu.Unlock()
	cw.ownWriteUntil = time.Now().Add(ownWriteGrace)
}

func (cw *ConfigWatcher) checkOwnWrite() bool {
	cw.ownWriteMu.Lock()
	defer cw.ownWriteMu.Unlock()
	return time.Now().Before(cw.ownWriteUntil)
}

// Start begins watching for config file changes
func (cw *ConfigWatcher) Start() {
	go cw.watchLoop()
}

func (cw *ConfigWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !cw.isWatched(event.Name) || isBackupFile(event.Name) {
				continue
			}
			if cw.checkOwnWrite() {
				cw.logger.Debugw("Config watcher ignoring own write", logger.FieldPath, event.Name)
				continue
			}

			cw.logger.Infow("Config watcher detected change",
				logger.FieldPath, event.Name,
				logger.FieldOperation, event.Op.String())
			cw.scheduleReload()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warnw("Config watcher error", logger.FieldError, err)
		}
	}
}

func (cw *ConfigWatcher) isWatched(name string) bool {
	clean := filepath.Clean(name)
	for _, p := range cw.paths {
		if filepath.Clean(p) == clean {
			return true
		}
	}
	return false
}

// scheduleReload debounces rapid file changes and triggers reload
func (cw *ConfigWatcher) scheduleReload() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.debounceTimer = time.AfterFunc(cw.debouncePeriod, func() {
		if err := cw.reload(); err != nil {
			cw.logger.Errorw("Config reload failed", logger.FieldError, err)
		}
	})
}

// reload loads and validates the new config, then calls every callback.
// An invalid config is rejected and the previous settings stay in effect.
func (cw *ConfigWatcher) reload() error {
	cfg, err := cw.load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "reloaded config is invalid")
	}

	cw.logger.Infow("Config reloaded", logger.FieldCount, len(cw.paths))

	cw.mu.RLock()
	callbacks := make([]ReloadCallback, len(cw.callbacks))
	copy(callbacks, cw.callbacks)
	cw.mu.RUnlock()

	for _, callback := range callbacks {
		// keep going so one failing subscriber does not starve the rest
		if err := callback(cfg); err != nil {
			cw.logger.Warnw("Config reload callback error", logger.FieldError, err)
		}
	}
	return nil
}

// Stop stops watching for config changes
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.mu.Unlock()
	return cw.watcher.Close()
}

// isBackupFile reports whether path is a rotated backup written by persist.go
func isBackupFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.HasPrefix(ext, ".back")
}

// ReloadFromSources resets the cache and loads through Load. It is the
// LoadFunc used for the merged system/user/project configuration.
func ReloadFromSources() (*Config, error) {
	Reset()
	return Load()
}

// SetGlobalWatcher sets the global watcher instance (used to prevent reload loops)
func SetGlobalWatcher(watcher *ConfigWatcher) {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	globalWatcher = watcher
}

// GetGlobalWatcher returns the global watcher instance
func GetGlobalWatcher() *ConfigWatcher {
	globalWatcherMu.Lock()
	defer globalWatcherMu.Unlock()
	return globalWatcher
}
