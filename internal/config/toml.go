// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Simulate SimulateConfig `toml:"simulate"`
	Log      LogConfig      `toml:"log"`
}

// SimulateConfig maps run settings. Nil fields are unset.
type SimulateConfig struct {
	Soil        *string `toml:"soil"`
	Input       *string `toml:"input"`
	Column      *string `toml:"column"`
	OutDir      *string `toml:"out-dir"`
	Precision   *int    `toml:"precision"`
	History     *bool   `toml:"history"`
	Summary     *bool   `toml:"summary"`
	MetricsFile *string `toml:"metrics-file"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
