// Package config loads tiletree's TOML configuration.
//
// A missing config file is not an error: [LoadDefault] returns [Default] so
// the engine runs with sensible gaps and borders out of the box. Values
// present in the file override the defaults section by section.
package config

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	terrors "github.com/matzehuels/tiletree/pkg/errors"
)

// FileName is the config file looked up inside the user config directory.
const FileName = "config.toml"

// Config is the full configuration file.
type Config struct {
	General General `toml:"general"`
	Tiling  Tiling  `toml:"tiling"`
	Log     Log     `toml:"log"`
	Events  Events  `toml:"events"`
	Server  Server  `toml:"server"`
}

// General holds window spacing in pixels.
type General struct {
	BorderSize int `toml:"border_size"`
	GapsIn     int `toml:"gaps_in"`
	GapsOut    int `toml:"gaps_out"`
}

// Tiling holds layout behavior switches.
type Tiling struct {
	// NoGapsWhenOnly drops gaps and borders for a lone tiled window.
	NoGapsWhenOnly bool `toml:"no_gaps_when_only"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"` // debug | info | warn | error
}

// Events configures layout event publishing. An empty RedisAddr disables it.
type Events struct {
	RedisAddr string `toml:"redis_addr"`
	Channel   string `toml:"channel"`
}

// Server configures the debug HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		General: General{BorderSize: 2, GapsIn: 5, GapsOut: 20},
		Log:     Log{Level: "info"},
		Events:  Events{Channel: "tiletree:events"},
		Server:  Server{Addr: "127.0.0.1:7373"},
	}
}

// Parse decodes TOML over the defaults and validates the result.
// Unknown keys are rejected so typos do not silently fall back to defaults.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, terrors.Wrap(terrors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, terrors.New(terrors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, terrors.Wrap(terrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, terrors.Wrap(terrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadDefault loads the config from [DefaultPath]. A missing file yields
// [Default]. The returned path is the one consulted.
func LoadDefault() (Config, string, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), "", err
	}
	cfg, err := Load(path)
	if terrors.Is(err, terrors.ErrCodeFileNotFound) {
		return Default(), path, nil
	}
	return cfg, path, err
}

// DefaultPath returns $XDG_CONFIG_HOME/tiletree/config.toml, falling back to
// ~/.config/tiletree/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(dir, "tiletree", FileName), nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.General.BorderSize < 0:
		return terrors.New(terrors.ErrCodeInvalidConfig, "general.border_size must be >= 0, got %d", c.General.BorderSize)
	case c.General.GapsIn < 0:
		return terrors.New(terrors.ErrCodeInvalidConfig, "general.gaps_in must be >= 0, got %d", c.General.GapsIn)
	case c.General.GapsOut < 0:
		return terrors.New(terrors.ErrCodeInvalidConfig, "general.gaps_out must be >= 0, got %d", c.General.GapsOut)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return terrors.Wrap(terrors.ErrCodeInvalidConfig, err, "log.level")
	}
	if c.Events.RedisAddr != "" && c.Events.Channel == "" {
		return terrors.New(terrors.ErrCodeInvalidConfig, "events.channel is required when events.redis_addr is set")
	}
	return nil
}

// LogLevel returns the configured log level, or info if it does not parse.
func (c Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// WriteFile writes c to path, creating parent directories. An existing file
// is only replaced when overwrite is set.
func (c Config) WriteFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return terrors.Wrap(terrors.ErrCodeInvalidInput, fs.ErrExist, "config %s", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
