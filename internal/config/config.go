package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// MaxTargetFPS caps the frame loop rate.
const MaxTargetFPS = 1000

// Config holds the editor settings.
type Config struct {
	Editor  EditorConfig  `toml:"editor" yaml:"editor"`
	Plugins PluginsConfig `toml:"plugins" yaml:"plugins"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
}

// EditorConfig controls the frame loop.
type EditorConfig struct {
	// TargetFPS of 0 runs frames back to back.
	TargetFPS int `toml:"target_fps" yaml:"target_fps"`
}

// PluginsConfig controls plugin discovery.
type PluginsConfig struct {
	Directory       string `toml:"directory" yaml:"directory"`
	AutoLoad        bool   `toml:"auto_load" yaml:"auto_load"`
	Watch           bool   `toml:"watch" yaml:"watch"`
	Scripts         bool   `toml:"scripts" yaml:"scripts"`
	DebounceMS      int    `toml:"debounce_ms" yaml:"debounce_ms"`
	ScriptTimeoutMS int    `toml:"script_timeout_ms" yaml:"script_timeout_ms"`
}

// LoggingConfig selects the zap encoder and level.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Editor: EditorConfig{
			TargetFPS: 60,
		},
		Plugins: PluginsConfig{
			Directory:       "plugins",
			AutoLoad:        true,
			Watch:           false,
			Scripts:         true,
			DebounceMS:      250,
			ScriptTimeoutMS: 5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, or .yaml / .yml. An empty path or a missing file yields the
// defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := decode(path, data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return newTOMLParseError(path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	return nil
}

// Validate checks ranges and enumerations.
func (c *Config) Validate() error {
	var errs []error
	if c.Editor.TargetFPS < 0 || c.Editor.TargetFPS > MaxTargetFPS {
		errs = append(errs, &ValidationError{Path: "editor.target_fps", Message: fmt.Sprintf("must be between 0 and %d", MaxTargetFPS), Value: c.Editor.TargetFPS})
	}
	if strings.TrimSpace(c.Plugins.Directory) == "" {
		errs = append(errs, &ValidationError{Path: "plugins.directory", Message: "must not be empty", Value: c.Plugins.Directory})
	}
	if c.Plugins.DebounceMS < 0 {
		errs = append(errs, &ValidationError{Path: "plugins.debounce_ms", Message: "must not be negative", Value: c.Plugins.DebounceMS})
	}
	if c.Plugins.ScriptTimeoutMS < 0 {
		errs = append(errs, &ValidationError{Path: "plugins.script_timeout_ms", Message: "must not be negative", Value: c.Plugins.ScriptTimeoutMS})
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "unknown level", Value: c.Logging.Level})
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs = append(errs, &ValidationError{Path: "logging.format", Message: `must be "json" or "console"`, Value: c.Logging.Format})
	}
	return errors.Join(errs...)
}
