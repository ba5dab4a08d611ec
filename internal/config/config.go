// Package config loads cadence configuration from TOML files.
package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	StatePath string `koanf:"state_path"` // state database location (empty = XDG data dir)

	Playback PlaybackConfig `koanf:"playback"`
}

// PlaybackConfig holds defaults for a fresh playback session.
type PlaybackConfig struct {
	Shuffle        bool  `koanf:"shuffle"`
	Repeat         bool  `koanf:"repeat"`
	RestoreSession *bool `koanf:"restore_session"` // resume the saved session on startup (default: true)
}

// Load reads configuration from the known locations, later files
// overriding earlier ones. Missing files are fine; an empty Config is
// valid.
func Load() (*Config, error) {
	return load(getConfigPaths())
}

// LoadFile reads configuration from a single explicit path.
func LoadFile(path string) (*Config, error) {
	return load([]string{path})
}

func load(paths []string) (*Config, error) {
	k := koanf.New(".")

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if cfg.StatePath != "" {
		cfg.StatePath = expandPath(cfg.StatePath)
	}

	return cfg, nil
}

// RestoreSession reports whether the saved session should be resumed on
// startup, defaulting to true when unset.
func (c *Config) RestoreSession() bool {
	if c.Playback.RestoreSession == nil {
		return true
	}
	return *c.Playback.RestoreSession
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/cadence/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "cadence", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
