package plugin

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"
)

type importerRegistration struct {
	importer Importer
	plugin   string
}

type panelRegistration struct {
	panel  Panel
	plugin string
}

// RegisterMenuItem appends a menu item owned by plugin. A nil callback is
// replaced with a no-op.
func (m *Manager) RegisterMenuItem(plugin string, item MenuItem) {
	if item.Callback == nil {
		item.Callback = func() {}
	}
	m.menuItems = append(m.menuItems, MenuRegistration{MenuItem: item, Plugin: plugin})
	m.logger.Debug("menu item registered", zap.String("plugin", plugin), zap.String("path", item.Path))
}

// RegisterImporter appends an importer owned by plugin.
func (m *Manager) RegisterImporter(plugin string, importer Importer) {
	if importer == nil {
		return
	}
	m.importers = append(m.importers, importerRegistration{importer: importer, plugin: plugin})
	m.logger.Debug("importer registered", zap.String("plugin", plugin), zap.String("importer", importer.Name()))
}

// RegisterPanel appends a panel owned by plugin.
func (m *Manager) RegisterPanel(plugin string, panel Panel) {
	if panel == nil {
		return
	}
	m.panels = append(m.panels, panelRegistration{panel: panel, plugin: plugin})
	m.logger.Debug("panel registered", zap.String("plugin", plugin), zap.String("panel", panel.Title()))
}

// MenuItems returns every registered menu item in registration order.
func (m *Manager) MenuItems() []MenuRegistration {
	return slices.Clone(m.menuItems)
}

// Importers returns every registered importer in registration order.
func (m *Manager) Importers() []Importer {
	out := make([]Importer, len(m.importers))
	for i, r := range m.importers {
		out[i] = r.importer
	}
	return out
}

// ImporterFor returns the first importer accepting the extension of path.
func (m *Manager) ImporterFor(path string) (Importer, bool) {
	for _, r := range m.importers {
		for _, ext := range r.importer.Extensions() {
			if strings.HasSuffix(strings.ToLower(path), strings.ToLower(ext)) {
				return r.importer, true
			}
		}
	}
	return nil, false
}

// Panels returns every registered panel in registration order.
func (m *Manager) Panels() []Panel {
	out := make([]Panel, len(m.panels))
	for i, r := range m.panels {
		out[i] = r.panel
	}
	return out
}

// RenderPanels draws every registered panel.
func (m *Manager) RenderPanels() {
	for _, r := range slices.Clone(m.panels) {
		if err := guard(func() error { r.panel.Render(); return nil }); err != nil {
			m.logger.Error("panel render failed",
				zap.String("plugin", r.plugin),
				zap.String("panel", r.panel.Title()),
				zap.Error(err),
			)
		}
	}
}

// InvokeMenuItem runs the callback of the first item registered with path.
func (m *Manager) InvokeMenuItem(path string) error {
	for _, item := range m.menuItems {
		if item.Path != path || item.Callback == nil {
			continue
		}
		callback := item.Callback
		if err := guard(func() error { callback(); return nil }); err != nil {
			return fmt.Errorf("menu item %q of plugin %q: %w", path, item.Plugin, err)
		}
		return nil
	}
	return fmt.Errorf("%q: %w", path, ErrMenuItemNotFound)
}

// dropRegistrations removes everything plugin registered. Callbacks of a
// plugin must not outlive its library.
func (m *Manager) dropRegistrations(plugin string) {
	m.menuItems = slices.DeleteFunc(m.menuItems, func(r MenuRegistration) bool { return r.Plugin == plugin })
	m.importers = slices.DeleteFunc(m.importers, func(r importerRegistration) bool { return r.plugin == plugin })
	m.panels = slices.DeleteFunc(m.panels, func(r panelRegistration) bool { return r.plugin == plugin })
}
