package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 60, cfg.Editor.TargetFPS)
	assert.Equal(t, "plugins", cfg.Plugins.Directory)
	assert.True(t, cfg.Plugins.AutoLoad)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "parallax.toml", `
[editor]
target_fps = 30

[plugins]
directory = "/opt/parallax/plugins"
watch = true

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Editor.TargetFPS)
	assert.Equal(t, "/opt/parallax/plugins", cfg.Plugins.Directory)
	assert.True(t, cfg.Plugins.Watch)
	assert.True(t, cfg.Plugins.Scripts, "unset keys keep defaults")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "parallax.yml", `
plugins:
  scripts: false
  debounce_ms: 100
logging:
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.Plugins.Scripts)
	assert.Equal(t, 100, cfg.Plugins.DebounceMS)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEmptyYAML(t *testing.T) {
	cfg, err := Load(writeConfig(t, "empty.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "bad.toml", "[editor]\nframes = 3\n"))
		var pe *ParseError
		assert.ErrorAs(t, err, &pe)
	})

	t.Run("syntax", func(t *testing.T) {
		_, err := Load(writeConfig(t, "bad.toml", "[editor\n"))
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Positive(t, pe.Line)
	})

	t.Run("unknown yaml key", func(t *testing.T) {
		_, err := Load(writeConfig(t, "bad.yaml", "editor:\n  frames: 3\n"))
		var pe *ParseError
		assert.ErrorAs(t, err, &pe)
	})

	t.Run("format", func(t *testing.T) {
		_, err := Load(writeConfig(t, "parallax.json", "{}"))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := Load(writeConfig(t, "bad.toml", "[editor]\ntarget_fps = -1\n"))
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Editor.TargetFPS = MaxTargetFPS + 1
	cfg.Plugins.Directory = " "
	cfg.Logging.Level = "loud"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, path := range []string{"editor.target_fps", "plugins.directory", "logging.level", "logging.format"} {
		assert.Contains(t, err.Error(), path)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvLogLevel:      "warn",
		EnvPluginDir:     "/tmp/plugins",
		EnvPluginWatch:   "on",
		EnvPluginScripts: "false",
		EnvTargetFPS:     "144",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv(lookup))
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/tmp/plugins", cfg.Plugins.Directory)
	assert.True(t, cfg.Plugins.Watch)
	assert.False(t, cfg.Plugins.Scripts)
	assert.Equal(t, 144, cfg.Editor.TargetFPS)

	env[EnvTargetFPS] = "fast"
	assert.Error(t, Default().ApplyEnv(lookup))

	env[EnvTargetFPS] = "60"
	env[EnvPluginWatch] = "maybe"
	assert.Error(t, Default().ApplyEnv(lookup))

	env[EnvPluginWatch] = "1"
	env[EnvLogFormat] = "xml"
	assert.ErrorIs(t, Default().ApplyEnv(lookup), ErrValidationFailed)
}
