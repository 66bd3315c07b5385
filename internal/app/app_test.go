package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/4inzler/Parallax-engine/internal/config"
	"github.com/4inzler/Parallax-engine/internal/ecs"
	"github.com/4inzler/Parallax-engine/internal/plugin"
)

const counterScript = `
local parallax = require("parallax")
info = { name = "Counter" }
updates = 0
guis = 0
function on_load()
  parallax.register_menu_item{ path = "Tools/Counter/Reset", callback = function() updates = 0 end }
end
function on_update(dt) updates = updates + 1 end
function on_gui() guis = guis + 1 end
`

type ticker struct {
	ecs.QuerySystem
	updates int
}

func (t *ticker) Update(float32) { t.updates++ }

func newTestApp(t *testing.T, mutate func(*config.Config)) (*Application, *observer.ObservedLogs) {
	t.Helper()
	cfg := config.Default()
	cfg.Editor.TargetFPS = 0
	cfg.Plugins.Directory = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}
	core, logs := observer.New(zapcore.DebugLevel)
	app, err := New(Options{Config: cfg, Logger: zap.New(core), DisableNative: true})
	require.NoError(t, err)
	t.Cleanup(func() { app.Shutdown() })
	return app, logs
}

func TestRunDrivesPluginsAndSystems(t *testing.T) {
	app, _ := newTestApp(t, nil)
	dir := app.Config().Plugins.Directory
	require.NoError(t, os.WriteFile(filepath.Join(dir, "counter.lua"), []byte(counterScript), 0o644))

	tick := ecs.RegisterQuerySystem[ticker](app.World().Systems())
	require.NotNil(t, tick)

	require.NoError(t, app.Run(context.Background(), 3))

	assert.Equal(t, uint64(3), app.Frames())
	assert.Equal(t, 3, tick.updates)
	require.True(t, app.Plugins().IsPluginLoaded("Counter"))
	require.Len(t, app.Plugins().MenuItems(), 1)

	require.NoError(t, app.Run(context.Background(), 2))
	assert.Equal(t, uint64(5), app.Frames())
	assert.Equal(t, 1, app.Plugins().Count(), "directory is scanned once")
}

func TestRunWithoutAutoLoad(t *testing.T) {
	app, _ := newTestApp(t, func(c *config.Config) { c.Plugins.AutoLoad = false })
	require.NoError(t, os.WriteFile(filepath.Join(app.Config().Plugins.Directory, "counter.lua"), []byte(counterScript), 0o644))

	require.NoError(t, app.Run(context.Background(), 1))
	assert.Equal(t, 0, app.Plugins().Count())

	assert.Equal(t, 1, app.LoadPlugins(context.Background()))
	assert.Equal(t, 0, app.LoadPlugins(context.Background()))
}

func TestRunStopsOnCancel(t *testing.T) {
	app, _ := newTestApp(t, func(c *config.Config) { c.Editor.TargetFPS = 120 })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, 0) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("frame loop did not stop")
	}
	assert.Positive(t, app.Frames())
	assert.Less(t, app.Frames(), uint64(120), "frames are paced")
}

func TestWatcherLoadsNewPlugins(t *testing.T) {
	app, _ := newTestApp(t, func(c *config.Config) {
		c.Plugins.Watch = true
		c.Plugins.DebounceMS = 50
		c.Editor.TargetFPS = 100
	})

	loaded := make(chan string, 1)
	app.Plugins().Subscribe(func(ev plugin.ManagerEvent) {
		if ev.Type == plugin.EventPluginLoaded {
			loaded <- ev.Plugin
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx, 0) }()

	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(app.Config().Plugins.Directory, "counter.lua")
	require.NoError(t, os.WriteFile(path, []byte(counterScript), 0o644))

	select {
	case name := <-loaded:
		assert.Equal(t, "Counter", name)
	case <-time.After(5 * time.Second):
		t.Fatal("watched plugin was not loaded")
	}
	cancel()
	require.NoError(t, <-done)
}

func TestRunAfterShutdown(t *testing.T) {
	app, logs := newTestApp(t, nil)
	require.NoError(t, app.Shutdown())
	require.NoError(t, app.Shutdown())

	assert.ErrorIs(t, app.Run(context.Background(), 1), ErrClosed)
	assert.Equal(t, 1, logs.FilterMessage("editor core shut down").Len())
}

func TestNewAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parallax.toml")
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"warn\"\n"), 0o644))

	env := map[string]string{config.EnvTargetFPS: "30"}
	app, err := New(Options{
		ConfigPath: path,
		LookupEnv: func(k string) (string, bool) {
			v, ok := env[k]
			return v, ok
		},
		PluginDir:     filepath.Join(dir, "plugins"),
		LogLevel:      "error",
		Logger:        zap.NewNop(),
		DisableNative: true,
	})
	require.NoError(t, err)
	defer app.Shutdown()

	cfg := app.Config()
	assert.Equal(t, 30, cfg.Editor.TargetFPS)
	assert.Equal(t, filepath.Join(dir, "plugins"), cfg.Plugins.Directory)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, []string{".lua"}, app.Plugins().Extensions())
}

func TestNewReportsInitErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"

	_, err := New(Options{Config: cfg, Logger: zap.NewNop()})

	var initErr *InitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "config", initErr.Component)
	assert.ErrorIs(t, err, config.ErrValidationFailed)
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: format})
		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	}

	logger, err := NewLogger(config.LoggingConfig{Level: "nonsense", Format: "console"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
}

func TestFrameBudget(t *testing.T) {
	assert.Equal(t, time.Duration(0), frameBudget(0))
	assert.Equal(t, time.Second/60, frameBudget(60))
}
