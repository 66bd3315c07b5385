package plugin

import "errors"

// Plugin system errors.
var (
	// ErrPluginNotFound is returned when a plugin file does not exist.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrNoEntryPoint is returned when a library exports neither the C ABI
	// entry point nor a CreatePlugin factory.
	ErrNoEntryPoint = errors.New("plugin has no entry point")

	// ErrUnsupportedFile is returned when no opener accepts a file extension.
	ErrUnsupportedFile = errors.New("unsupported plugin file")

	// ErrAlreadyLoaded is returned when a plugin with the same name is loaded.
	ErrAlreadyLoaded = errors.New("plugin is already loaded")

	// ErrNotLoaded is returned when unloading a plugin that is not loaded.
	ErrNotLoaded = errors.New("plugin is not loaded")

	// ErrInvalidPlugin is returned when plugin validation fails.
	ErrInvalidPlugin = errors.New("invalid plugin")

	// ErrInitFailed is returned when a plugin reports failure from its load hook.
	ErrInitFailed = errors.New("plugin initialization failed")

	// ErrPluginPanic is returned when plugin code panics across a host call.
	ErrPluginPanic = errors.New("plugin panicked")

	// ErrMenuItemNotFound is returned when no menu item has the requested path.
	ErrMenuItemNotFound = errors.New("menu item not found")
)
