// Package plugin provides the plugin system for the Parallax editor.
//
// Plugins extend the editor with:
//   - Menu items
//   - Asset importers
//   - Dockable panels
//   - Per-frame update and GUI hooks
//
// # Quick Start
//
// The editor creates one Manager and hands it to whatever needs plugins:
//
//	mgr := plugin.NewManager(plugin.WithLogger(logger))
//	defer mgr.Close()
//
//	n := mgr.LoadPluginsFromDirectory(ctx, "plugins")
//	logger.Info("plugins ready", zap.Int("count", n))
//
//	for running {
//	    mgr.RenderPluginGuis()
//	    mgr.UpdatePlugins(dt)
//	}
//
// # Plugin Kinds
//
// A plugin file is opened by the Opener registered for its extension.
//
// Native libraries (.so, .dylib, .dll) are checked for the C ABI entry
// point first (see package abi). Libraries exporting it are wrapped in a
// CAbiAdapter. Otherwise, if the file was built with -buildmode=plugin, it
// is opened as a Go plugin exporting
//
//	func CreatePlugin() plugin.Plugin
//
// which needs cgo and a host built with the same toolchain. Go plugins are
// never unmapped by the runtime. Any other library fails with
// ErrNoEntryPoint.
//
// Lua scripts (.lua) are served by package plugin/lua when the editor
// enables them.
//
// # Loading
//
// LoadPlugin is atomic. The file must exist, the library must open, the
// entry point must be valid and report the host ABI version, the name must
// be non-empty and unused, and OnLoad must succeed. Any failure closes the
// library and discards whatever the plugin registered.
//
// # Unloading
//
// UnloadPlugin runs OnUnload, closes the library, then removes the plugin
// and its registrations. OnUnload always runs first because a C plugin's
// code lives in the library image. UnloadAllPlugins does this for every
// plugin in reverse load order.
//
// # Threading
//
// The Manager is confined to the frame loop goroutine. Plugin calls are
// synchronous and have no timeout; a plugin that blocks stalls the frame.
// Panics in Go plugins and host callbacks are recovered and reported as
// ErrPluginPanic. Faults in native code are not recoverable.
package plugin
