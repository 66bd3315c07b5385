package abi

import "errors"

// ABI errors.
var (
	// ErrSymbolNotFound is returned when a library does not export a symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrNullAPI is returned when the entry point returns a null table.
	ErrNullAPI = errors.New("plugin returned null api table")

	// ErrVersionMismatch is returned when the table's ABI version differs from Version.
	ErrVersionMismatch = errors.New("plugin abi version mismatch")

	// ErrLibraryClosed is returned when a closed library is used.
	ErrLibraryClosed = errors.New("library is closed")

	// ErrUnsupported is returned on platforms without native library loading.
	ErrUnsupported = errors.New("native plugins are not supported on this platform")
)
