package am

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/ontograph/errors"
	"github.com/teranos/ontograph/logger"
)

// backupGenerations is how many rotated copies (.back1 ... .back3) are kept.
const backupGenerations = 3

// UserConfigPath returns ~/.ontograph/am.toml, the file written by SetValue.
func UserConfigPath() string {
	dir := UserConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "am.toml")
}

// createBackup rotates .back1 -> .back2 -> .back3 and copies the current file to .back1
func createBackup(configPath string) error {
	content, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	oldest := backupName(configPath, backupGenerations)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup", logger.FieldPath, oldest, logger.FieldError, err)
	}

	for gen := backupGenerations - 1; gen >= 1; gen-- {
		from := backupName(configPath, gen)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, backupName(configPath, gen+1)); err != nil {
			return errors.Wrapf(err, "failed to rotate %s", from)
		}
	}

	if err := os.WriteFile(backupName(configPath, 1), content, 0644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

func backupName(configPath string, gen int) string {
	return configPath + ".back" + strconv.Itoa(gen)
}

// readTOMLMap loads configPath as a generic table, or an empty one if it does not exist
func readTOMLMap(configPath string) (map[string]interface{}, error) {
	config := make(map[string]interface{})
	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", configPath)
	}
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", configPath)
	}
	return config, nil
}

// writeTOMLMap backs up and replaces configPath
func writeTOMLMap(config map[string]interface{}, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// Mark this as our own write to prevent reload loops
	if w := GetGlobalWatcher(); w != nil {
		w.MarkOwnWrite()
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}
	return nil
}

// SetValue sets a dotted key such as "server.port" in configPath, keeping
// every other setting in the file. raw is parsed as a TOML value, falling
// back to a plain string.
func SetValue(configPath, key, raw string) error {
	if configPath == "" {
		return errors.New("could not determine config path")
	}
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return errors.Newf("invalid config key %q", key)
		}
	}

	config, err := readTOMLMap(configPath)
	if err != nil {
		return err
	}

	table := config
	for _, section := range parts[:len(parts)-1] {
		next, ok := table[section].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			table[section] = next
		}
		table = next
	}
	table[parts[len(parts)-1]] = ParseValue(raw)

	return writeTOMLMap(config, configPath)
}

// ParseValue interprets raw as a TOML value ("8080", "true", `["a", "b"]`),
// returning it unchanged when it is not valid TOML.
func ParseValue(raw string) interface{} {
	var doc struct {
		V interface{} `toml:"v"`
	}
	if err := toml.Unmarshal([]byte("v = "+raw), &doc); err != nil || doc.V == nil {
		return raw
	}
	return doc.V
}

// WriteConfig writes the complete configuration to configPath.
func WriteConfig(configPath string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	config := make(map[string]interface{})
	if err := toml.Unmarshal(data, &config); err != nil {
		return errors.Wrap(err, "failed to reparse config")
	}
	return writeTOMLMap(config, configPath)
}
