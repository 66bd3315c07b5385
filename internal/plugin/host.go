package plugin

import (
	"go.uber.org/zap"
)

// pluginHost is the Host handed to one plugin. It tags every registration
// with the plugin name and goes inert once the plugin unloads.
type pluginHost struct {
	manager *Manager
	name    string
	logger  *zap.Logger
	closed  bool
}

func newPluginHost(m *Manager, name string) *pluginHost {
	return &pluginHost{
		manager: m,
		name:    name,
		logger:  m.logger.With(zap.String("plugin", name)),
	}
}

// RegisterMenuItem adds a menu item owned by this plugin.
func (h *pluginHost) RegisterMenuItem(item MenuItem) {
	if h.rejected("menu item") {
		return
	}
	h.manager.RegisterMenuItem(h.name, item)
}

// RegisterImporter adds an importer owned by this plugin.
func (h *pluginHost) RegisterImporter(importer Importer) {
	if h.rejected("importer") {
		return
	}
	h.manager.RegisterImporter(h.name, importer)
}

// RegisterPanel adds a panel owned by this plugin.
func (h *pluginHost) RegisterPanel(panel Panel) {
	if h.rejected("panel") {
		return
	}
	h.manager.RegisterPanel(h.name, panel)
}

// Logger returns a logger tagged with the plugin name.
func (h *pluginHost) Logger() *zap.Logger {
	return h.logger
}

func (h *pluginHost) rejected(what string) bool {
	if h.closed {
		h.logger.Warn("registration after unload ignored", zap.String("kind", what))
	}
	return h.closed
}

func (h *pluginHost) close() {
	h.closed = true
}
