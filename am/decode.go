package am

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/teranos/ontograph/errors"
)

// Defaults returns the built-in configuration.
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// defaults are static; a failure here is a programming error
		panic(err)
	}
	return cfg
}

// DecodeFile decodes a standalone TOML file over the defaults, without
// merging system, user or environment sources. Keys the file sets that
// Config does not know are returned so callers can warn about typos.
func DecodeFile(path string) (*Config, []string, error) {
	cfg := Defaults()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	var unknown []string
	for _, key := range meta.Undecoded() {
		unknown = append(unknown, key.String())
	}
	return cfg, unknown, nil
}
