package plugin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/4inzler/Parallax-engine/internal/plugin/abi"
)

// Manager owns every loaded plugin and the registries plugins contribute to.
//
// The editor creates one Manager at startup and passes it to whatever needs
// it. A Manager is not safe for concurrent use: loads, unloads and frame
// callbacks all run on the frame loop goroutine.
type Manager struct {
	logger *zap.Logger

	// Openers by lower-case file extension
	openers map[string]Opener

	// Loaded plugins by name
	plugins map[string]*LoadedPlugin

	// Plugin load order (for deterministic iteration)
	loadOrder []string

	// Transient states of plugins being loaded or unloaded
	states map[string]State

	menuItems []MenuRegistration
	importers []importerRegistration
	panels    []panelRegistration

	handlers []subscription
	nextSub  uint64
}

// LoadedPlugin is the record of a loaded plugin.
type LoadedPlugin struct {
	// ID identifies this load; a plugin loaded again gets a new ID.
	ID       uuid.UUID
	Instance Plugin
	Info     Info
	Path     string
	LoadedAt time.Time

	library Library
	host    *pluginHost
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(logger *zap.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithOpener adds an opener for the extensions it reports, replacing any
// opener previously registered for them.
func WithOpener(o Opener) ManagerOption {
	return func(m *Manager) {
		for _, ext := range o.Extensions() {
			m.openers[strings.ToLower(ext)] = o
		}
	}
}

// WithoutNativeLibraries removes the default native opener.
func WithoutNativeLibraries() ManagerOption {
	return func(m *Manager) {
		for _, ext := range (NativeOpener{}).Extensions() {
			delete(m.openers, ext)
		}
	}
}

// NewManager creates a plugin manager that opens native libraries of the
// running platform.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		logger:  zap.NewNop(),
		openers: make(map[string]Opener),
		plugins: make(map[string]*LoadedPlugin),
		states:  make(map[string]State),
	}
	WithOpener(NativeOpener{})(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Extensions returns the file extensions the manager can load, sorted.
func (m *Manager) Extensions() []string {
	exts := make([]string, 0, len(m.openers))
	for ext := range m.openers {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Accepts reports whether path has an extension the manager can load.
func (m *Manager) Accepts(path string) bool {
	_, ok := m.openers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// LoadPlugin loads the plugin at path. On failure nothing changes: the
// library is closed, no registration survives and no record is kept.
func (m *Manager) LoadPlugin(path string) error {
	rec, err := m.load(path)
	if err != nil {
		m.logger.Error("plugin load failed", zap.String("path", path), zap.Error(err))
		m.emitEvent(ManagerEvent{Type: EventPluginFailed, Path: path, Error: err})
		return err
	}

	m.logger.Info("plugin loaded",
		zap.String("plugin", rec.Info.Name),
		zap.String("version", rec.Info.Version),
		zap.String("author", rec.Info.Author),
		zap.String("path", path),
		zap.Stringer("id", rec.ID),
	)
	m.emitEvent(ManagerEvent{Type: EventPluginLoaded, Plugin: rec.Info.Name, Path: path, ID: rec.ID})
	return nil
}

func (m *Manager) load(path string) (*LoadedPlugin, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrPluginNotFound)
		}
		return nil, err
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", path, ErrInvalidPlugin)
	}

	opener, ok := m.openers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFile)
	}
	lib, err := opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open plugin: %w", err)
	}

	rec, err := m.start(lib, path)
	if err != nil {
		if cerr := lib.Close(); cerr != nil {
			m.logger.Warn("closing rejected plugin library failed", zap.String("path", path), zap.Error(cerr))
		}
		return nil, err
	}
	return rec, nil
}

// start resolves the plugin instance, validates it and runs OnLoad.
func (m *Manager) start(lib Library, path string) (*LoadedPlugin, error) {
	instance, err := instantiate(lib)
	if err != nil {
		return nil, err
	}

	var info Info
	if err := guard(func() error { info = instance.Info(); return nil }); err != nil {
		return nil, err
	}
	if info.Name == "" {
		return nil, fmt.Errorf("empty plugin name: %w", ErrInvalidPlugin)
	}
	if _, exists := m.plugins[info.Name]; exists {
		return nil, fmt.Errorf("plugin %q: %w", info.Name, ErrAlreadyLoaded)
	}
	if _, busy := m.states[info.Name]; busy {
		return nil, fmt.Errorf("plugin %q: %w", info.Name, ErrAlreadyLoaded)
	}

	m.states[info.Name] = StateLoading
	defer delete(m.states, info.Name)

	host := newPluginHost(m, info.Name)
	if err := guard(func() error { return instance.OnLoad(host) }); err != nil {
		host.close()
		m.dropRegistrations(info.Name)
		return nil, fmt.Errorf("plugin %q: %w", info.Name, err)
	}

	rec := &LoadedPlugin{
		ID:       uuid.New(),
		Instance: instance,
		Info:     info.clone(),
		Path:     path,
		LoadedAt: time.Now(),
		library:  lib,
		host:     host,
	}
	m.plugins[info.Name] = rec
	m.loadOrder = append(m.loadOrder, info.Name)
	return rec, nil
}

// instantiate prefers the C ABI entry point and falls back to the native factory.
func instantiate(lib Library) (Plugin, error) {
	api, err := lib.LookupAPI()
	switch {
	case err == nil:
		if api == nil {
			return nil, abi.ErrNullAPI
		}
		if err := api.CheckVersion(); err != nil {
			return nil, err
		}
		return NewCAbiAdapter(api)
	case !errors.Is(err, abi.ErrSymbolNotFound):
		return nil, err
	}

	factory, err := lib.LookupFactory()
	if err != nil {
		if errors.Is(err, abi.ErrSymbolNotFound) {
			return nil, ErrNoEntryPoint
		}
		return nil, err
	}
	var instance Plugin
	if err := guard(func() error { instance = factory(); return nil }); err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, fmt.Errorf("%s returned nil: %w", FactorySymbol, ErrInvalidPlugin)
	}
	return instance, nil
}

// LoadPluginsFromDirectory loads every file in dir with an accepted
// extension, in name order, without descending into subdirectories. It
// returns the number of plugins loaded. Individual failures are logged and
// skipped; cancelling ctx stops the scan before the next file.
func (m *Manager) LoadPluginsFromDirectory(ctx context.Context, dir string) int {
	paths, err := ScanDirectory(dir, m.Accepts)
	if err != nil {
		m.logger.Warn("plugin directory unavailable", zap.String("dir", dir), zap.Error(err))
		return 0
	}

	loaded := 0
	for _, path := range paths {
		if ctx.Err() != nil {
			m.logger.Warn("plugin directory scan cancelled", zap.String("dir", dir))
			break
		}
		if m.LoadPlugin(path) == nil {
			loaded++
		}
	}
	m.logger.Info("plugin directory scanned",
		zap.String("dir", dir),
		zap.Int("candidates", len(paths)),
		zap.Int("loaded", loaded),
	)
	return loaded
}

// UnloadPlugin runs the plugin's OnUnload, closes its library and removes
// it together with everything it registered.
func (m *Manager) UnloadPlugin(name string) error {
	rec, ok := m.plugins[name]
	if !ok {
		return fmt.Errorf("plugin %q: %w", name, ErrNotLoaded)
	}
	return m.teardown(rec)
}

// UnloadAllPlugins unloads every plugin in reverse load order and clears
// all registries.
func (m *Manager) UnloadAllPlugins() error {
	var errs []error
	for _, name := range slices.Backward(slices.Clone(m.loadOrder)) {
		if rec, ok := m.plugins[name]; ok {
			if err := m.teardown(rec); err != nil {
				errs = append(errs, err)
			}
		}
	}
	m.menuItems = nil
	m.importers = nil
	m.panels = nil

	if len(errs) > 0 {
		return fmt.Errorf("failed to unload %d plugins: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// Close unloads every plugin.
func (m *Manager) Close() error {
	return m.UnloadAllPlugins()
}

// teardown unloads one plugin. OnUnload always runs before the library is
// closed since plugin code lives in the library image.
func (m *Manager) teardown(rec *LoadedPlugin) error {
	name := rec.Info.Name
	m.states[name] = StateUnloading
	defer delete(m.states, name)

	if err := guard(func() error { rec.Instance.OnUnload(); return nil }); err != nil {
		m.logger.Error("plugin unload hook failed", zap.String("plugin", name), zap.Error(err))
	}
	rec.host.close()

	closeErr := rec.library.Close()

	delete(m.plugins, name)
	m.loadOrder = slices.DeleteFunc(m.loadOrder, func(n string) bool { return n == name })
	m.dropRegistrations(name)

	m.logger.Info("plugin unloaded", zap.String("plugin", name), zap.Stringer("id", rec.ID))
	m.emitEvent(ManagerEvent{Type: EventPluginUnloaded, Plugin: name, Path: rec.Path, ID: rec.ID})

	if closeErr != nil {
		return fmt.Errorf("plugin %q: close library: %w", name, closeErr)
	}
	return nil
}

// IsPluginLoaded reports whether a plugin with this name is loaded.
func (m *Manager) IsPluginLoaded(name string) bool {
	_, ok := m.plugins[name]
	return ok
}

// LoadedPlugins returns the names of loaded plugins in load order.
func (m *Manager) LoadedPlugins() []string {
	return slices.Clone(m.loadOrder)
}

// PluginInfo returns the info of a loaded plugin, or a zero Info.
func (m *Manager) PluginInfo(name string) Info {
	rec, ok := m.plugins[name]
	if !ok {
		return Info{}
	}
	return rec.Info.clone()
}

// Plugin returns the record of a loaded plugin.
func (m *Manager) Plugin(name string) (*LoadedPlugin, bool) {
	rec, ok := m.plugins[name]
	return rec, ok
}

// State returns the lifecycle state of the named plugin.
func (m *Manager) State(name string) State {
	if s, ok := m.states[name]; ok {
		return s
	}
	if _, ok := m.plugins[name]; ok {
		return StateLoaded
	}
	return StateUnloaded
}

// Count returns the number of loaded plugins.
func (m *Manager) Count() int {
	return len(m.plugins)
}

// UpdatePlugins calls OnUpdate on every loaded plugin in load order.
func (m *Manager) UpdatePlugins(dt float32) {
	for _, rec := range m.loaded() {
		if m.plugins[rec.Info.Name] != rec {
			continue
		}
		if err := guard(func() error { rec.Instance.OnUpdate(dt); return nil }); err != nil {
			m.logger.Error("plugin update failed", zap.String("plugin", rec.Info.Name), zap.Error(err))
		}
	}
}

// RenderPluginGuis calls OnGUI on every loaded plugin in load order.
func (m *Manager) RenderPluginGuis() {
	for _, rec := range m.loaded() {
		if m.plugins[rec.Info.Name] != rec {
			continue
		}
		if err := guard(func() error { rec.Instance.OnGUI(); return nil }); err != nil {
			m.logger.Error("plugin gui failed", zap.String("plugin", rec.Info.Name), zap.Error(err))
		}
	}
}

// loaded snapshots the records so callbacks may unload plugins safely.
func (m *Manager) loaded() []*LoadedPlugin {
	out := make([]*LoadedPlugin, 0, len(m.loadOrder))
	for _, name := range m.loadOrder {
		out = append(out, m.plugins[name])
	}
	return out
}
