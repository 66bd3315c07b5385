package abi

import "fmt"

// Version is the ABI revision this host implements. A plugin whose table
// reports a different value is rejected before any of its code runs.
const Version uint32 = 1

// Entry point symbols, looked up in order.
const (
	EntrySymbol      = "ParallaxGetPluginApi"
	EntrySymbolAlias = "GetPluginApi"
)

// LogLevel is the severity passed through the host log callback.
type LogLevel int32

const (
	LogInfo  LogLevel = 0
	LogWarn  LogLevel = 1
	LogError LogLevel = 2
)

// String returns a human-readable level name. Unknown values read as info.
func (l LogLevel) String() string {
	switch l {
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	default:
		return "info"
	}
}

// State is the opaque per-instance pointer a plugin hands back from on_load.
// The host never dereferences it.
type State uintptr

// Info is the decoded plugin metadata block.
type Info struct {
	Name         string
	Version      string
	Author       string
	Description  string
	Dependencies []string
}

// MenuItem is a decoded menu registration. Callback is nil when the plugin
// passed a null function pointer. Separator asks for a separator before the item.
type MenuItem struct {
	Path      string
	Icon      string
	Shortcut  string
	Callback  func()
	Separator bool
}

// Host is the set of services a foreign plugin can reach through its host
// context. Implementations must tolerate calls for the whole time between
// on_load and on_unload.
type Host interface {
	RegisterMenuItem(item MenuItem) bool
	Log(level LogLevel, msg string)
}

// API is the decoded function table of a plugin. Absent lifecycle entries
// are nil.
type API struct {
	Version uint32
	Info    Info

	OnLoad   func(host Host, state *State) bool
	OnUnload func(state State)
	OnUpdate func(state State, dt float32)
	OnGUI    func(state State)

	// Detach releases host resources bound by a successful OnLoad. It runs
	// after OnUnload and is nil for tables not bound to a native library.
	Detach func()
}

// CheckVersion reports whether the table matches the host ABI.
func (a *API) CheckVersion() error {
	if a.Version != Version {
		return fmt.Errorf("%w: plugin reports %d, host expects %d", ErrVersionMismatch, a.Version, Version)
	}
	return nil
}
