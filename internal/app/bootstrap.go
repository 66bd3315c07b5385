package app

import (
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/4inzler/Parallax-engine/internal/config"
	"github.com/4inzler/Parallax-engine/internal/ecs"
	"github.com/4inzler/Parallax-engine/internal/plugin"
	"github.com/4inzler/Parallax-engine/internal/plugin/lua"
)

// bootstrapper handles component initialization with cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

func newBootstrapper(app *Application) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      app.opts,
		initOrder: make([]string, 0, 4),
	}
}

func (b *bootstrapper) bootstrap() error {
	steps := []struct {
		name string
		init func() error
	}{
		{"config", b.initConfig},
		{"logger", b.initLogger},
		{"plugins", b.initPlugins},
		{"world", b.initWorld},
		{"watcher", b.initWatcher},
	}
	for _, step := range steps {
		if err := step.init(); err != nil {
			b.cleanup()
			return &InitError{Component: step.name, Err: err}
		}
		b.initOrder = append(b.initOrder, step.name)
	}
	return nil
}

func (b *bootstrapper) initConfig() error {
	cfg := b.opts.Config
	if cfg == nil {
		loaded, err := config.Load(b.opts.ConfigPath)
		if err != nil {
			return err
		}
		if err := loaded.ApplyEnv(lookupEnv(b.opts)); err != nil {
			return err
		}
		cfg = loaded
	}
	if b.opts.PluginDir != "" {
		cfg.Plugins.Directory = b.opts.PluginDir
	}
	if b.opts.LogLevel != "" {
		cfg.Logging.Level = b.opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	b.app.config = cfg
	return nil
}

func (b *bootstrapper) initLogger() error {
	if b.opts.Logger != nil {
		b.app.logger = b.opts.Logger
		return nil
	}
	logger, err := NewLogger(b.app.config.Logging)
	if err != nil {
		return err
	}
	b.app.logger = logger
	b.app.ownsLogger = true
	return nil
}

func (b *bootstrapper) initPlugins() error {
	cfg := b.app.config.Plugins
	opts := []plugin.ManagerOption{plugin.WithLogger(b.app.logger.Named("plugins"))}
	if b.opts.DisableNative {
		opts = append(opts, plugin.WithoutNativeLibraries())
	}
	if cfg.Scripts {
		opts = append(opts, plugin.WithOpener(lua.NewOpener(
			lua.WithLogger(b.app.logger.Named("scripts")),
			lua.WithTimeout(time.Duration(cfg.ScriptTimeoutMS)*time.Millisecond),
		)))
	}
	for _, o := range b.opts.Openers {
		opts = append(opts, plugin.WithOpener(o))
	}
	b.app.plugins = plugin.NewManager(opts...)
	return nil
}

func (b *bootstrapper) initWorld() error {
	b.app.world = ecs.NewWorld(b.app.logger.Named("ecs"))
	return nil
}

// initWatcher creates the plugin directory if needed. A watcher that cannot
// start is logged and skipped.
func (b *bootstrapper) initWatcher() error {
	cfg := b.app.config.Plugins
	if !cfg.Watch {
		return nil
	}
	logger := b.app.logger.Named("watcher")
	if err := os.MkdirAll(cfg.Directory, 0o755); err != nil {
		logger.Warn("plugin directory unavailable, not watching", zap.String("dir", cfg.Directory), zap.Error(err))
		return nil
	}
	w, err := plugin.NewWatcher(cfg.Directory, b.app.plugins.Accepts,
		plugin.WithDebounce(time.Duration(cfg.DebounceMS)*time.Millisecond),
		plugin.WithWatcherLogger(logger),
	)
	if err != nil {
		logger.Warn("plugin watcher failed to start", zap.String("dir", cfg.Directory), zap.Error(err))
		return nil
	}
	b.app.watcher = w
	return nil
}

// cleanup releases initialized components in reverse order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		switch b.initOrder[i] {
		case "watcher":
			if b.app.watcher != nil {
				b.app.watcher.Close()
			}
		case "plugins":
			b.app.plugins.Close()
		case "logger":
			if b.app.ownsLogger {
				_ = b.app.logger.Sync()
			}
		}
	}
}
