package plugin

import (
	"slices"

	"go.uber.org/zap"
)

// Info describes a plugin. Name is the unique key in the Manager.
// Dependencies are declared only; nothing resolves them.
type Info struct {
	Name         string
	Version      string
	Author       string
	Description  string
	Dependencies []string
}

func (i Info) clone() Info {
	i.Dependencies = slices.Clone(i.Dependencies)
	return i
}

// Plugin is the lifecycle contract shared by native Go plugins, C ABI
// plugins and script plugins.
//
// The Manager calls these methods from a single goroutine. OnUpdate and
// OnGUI run once per frame, in that order, only between a successful OnLoad
// and OnUnload.
type Plugin interface {
	Info() Info
	OnLoad(host Host) error
	OnUnload()
	OnUpdate(dt float32)
	OnGUI()
}

// Factory creates a native Go plugin. Shared objects built with
// -buildmode=plugin export one as CreatePlugin.
type Factory func() Plugin

// Host is the editor surface a plugin may use. Each plugin receives its own
// Host; registrations made through it are owned by that plugin and are
// dropped when it unloads.
type Host interface {
	RegisterMenuItem(item MenuItem)
	RegisterImporter(importer Importer)
	RegisterPanel(panel Panel)
	Logger() *zap.Logger
}

// MenuItem is an entry contributed to the editor menu bar. Path is slash
// delimited, e.g. "Tools/My Plugin/Run". Separator asks for a separator
// before the item.
type MenuItem struct {
	Path      string
	Icon      string
	Shortcut  string
	Callback  func()
	Separator bool
}

// Importer converts external asset files into editor assets.
type Importer interface {
	Name() string
	Extensions() []string
	Import(path string) error
}

// Panel is a dockable editor window drawn once per frame.
type Panel interface {
	Title() string
	Render()
}

// MenuRegistration is a menu item together with the plugin that owns it.
type MenuRegistration struct {
	MenuItem
	Plugin string
}
