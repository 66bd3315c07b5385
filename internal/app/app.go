// Package app wires the editor core together and drives the frame loop.
package app

import (
	"errors"
	"os"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/4inzler/Parallax-engine/internal/config"
	"github.com/4inzler/Parallax-engine/internal/ecs"
	"github.com/4inzler/Parallax-engine/internal/plugin"
)

// Application is the central coordinator for the editor core.
type Application struct {
	mu sync.Mutex

	config *config.Config
	logger *zap.Logger

	plugins *plugin.Manager
	world   *ecs.World
	watcher *plugin.Watcher

	running        atomic.Bool
	closed         bool
	pluginsScanned bool
	frames         atomic.Uint64

	ownsLogger bool
	opts       Options
}

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML or YAML settings file.
	ConfigPath string

	// Config replaces loading ConfigPath and the environment.
	Config *config.Config

	// LookupEnv reads overrides; nil means os.LookupEnv.
	LookupEnv func(string) (string, bool)

	// PluginDir and LogLevel override the settings when set.
	PluginDir string
	LogLevel  string

	// Logger replaces the logger built from the settings.
	Logger *zap.Logger

	// Openers are added to the plugin manager.
	Openers []plugin.Opener

	// DisableNative stops the manager from opening shared libraries.
	DisableNative bool
}

// New creates an Application. Components are initialized in dependency
// order; a failure tears down what was already built.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := newBootstrapper(app).bootstrap(); err != nil {
		return nil, err
	}
	return app, nil
}

// Config returns the effective settings.
func (app *Application) Config() *config.Config {
	return app.config
}

// Logger returns the application logger.
func (app *Application) Logger() *zap.Logger {
	return app.logger
}

// Plugins returns the plugin manager.
func (app *Application) Plugins() *plugin.Manager {
	return app.plugins
}

// World returns the ECS world updated every frame.
func (app *Application) World() *ecs.World {
	return app.world
}

// Frames returns the number of frames run so far.
func (app *Application) Frames() uint64 {
	return app.frames.Load()
}

// Shutdown stops watching, unloads every plugin and flushes the logger.
// It is safe to call more than once. Shutdown must not race with Run; cancel
// Run's context and wait for it to return first.
func (app *Application) Shutdown() error {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed {
		return nil
	}
	app.closed = true

	var errs []error
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := app.plugins.Close(); err != nil {
		errs = append(errs, err)
	}
	app.logger.Info("editor core shut down", zap.Uint64("frames", app.frames.Load()))
	if app.ownsLogger {
		// Sync on a terminal stderr reports EINVAL/ENOTTY; there is nothing to flush.
		_ = app.logger.Sync()
	}
	return errors.Join(errs...)
}

func lookupEnv(opts Options) func(string) (string, bool) {
	if opts.LookupEnv != nil {
		return opts.LookupEnv
	}
	return os.LookupEnv
}
