package app

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/4inzler/Parallax-engine/internal/plugin"
)

// LoadPlugins scans the plugin directory once and returns how many plugins
// loaded. Later calls return 0.
func (app *Application) LoadPlugins(ctx context.Context) int {
	app.mu.Lock()
	defer app.mu.Unlock()

	if app.closed || app.pluginsScanned {
		return 0
	}
	app.pluginsScanned = true
	return app.plugins.LoadPluginsFromDirectory(ctx, app.config.Plugins.Directory)
}

// Run drives the frame loop until ctx is cancelled or maxFrames frames have
// run; maxFrames 0 means no limit. Each frame renders plugin GUIs and
// panels, loads files reported by the watcher, updates plugins and ECS
// systems, then sleeps out the rest of the frame budget. Cancellation is a
// normal stop and returns nil.
func (app *Application) Run(ctx context.Context, maxFrames uint64) error {
	if app.isClosed() {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if app.config.Plugins.AutoLoad {
		app.LoadPlugins(ctx)
	}

	budget := frameBudget(app.config.Editor.TargetFPS)
	app.logger.Info("frame loop started",
		zap.Int("target_fps", app.config.Editor.TargetFPS),
		zap.Int("plugins", app.plugins.Count()),
	)

	last := time.Now()
	for n := uint64(0); maxFrames == 0 || n < maxFrames; n++ {
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		dt := float32(start.Sub(last).Seconds())
		last = start

		app.render()
		app.update(dt)
		app.frames.Add(1)

		if !sleepUntil(ctx, start.Add(budget)) {
			break
		}
	}

	app.logger.Info("frame loop stopped", zap.Uint64("frames", app.frames.Load()))
	return nil
}

func (app *Application) render() {
	app.plugins.RenderPluginGuis()
	app.plugins.RenderPanels()
}

func (app *Application) update(dt float32) {
	if app.watcher != nil {
		for _, path := range app.watcher.Drain() {
			// Failures are logged by the manager.
			if err := app.plugins.LoadPlugin(path); errors.Is(err, plugin.ErrAlreadyLoaded) {
				app.logger.Debug("changed plugin already loaded", zap.String("path", path))
			}
		}
	}
	app.plugins.UpdatePlugins(dt)
	app.world.Systems().Update(dt)
}

func (app *Application) isClosed() bool {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.closed
}

// frameBudget returns the frame duration for fps; 0 means unpaced.
func frameBudget(fps int) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Second / time.Duration(fps)
}

// sleepUntil waits until deadline and reports false if ctx ended first.
func sleepUntil(ctx context.Context, deadline time.Time) bool {
	wait := time.Until(deadline)
	if wait <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
