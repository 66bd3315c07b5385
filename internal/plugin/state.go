package plugin

// State represents the lifecycle state of a plugin in the Manager.
type State int

// Plugin states. A plugin moves Unloaded -> Loading -> Loaded -> Unloading ->
// Unloaded; reloading is an unload followed by an independent load.
const (
	// StateUnloaded - No plugin with this name is loaded.
	StateUnloaded State = iota

	// StateLoading - OnLoad is running.
	StateLoading

	// StateLoaded - Plugin receives update and GUI calls.
	StateLoaded

	// StateUnloading - OnUnload is running or the library is being closed.
	StateUnloading
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateUnloading:
		return "unloading"
	default:
		return "unknown"
	}
}
