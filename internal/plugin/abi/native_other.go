//go:build !darwin && !freebsd && !linux && !windows

package abi

// Library is unavailable on this platform; Open always fails.
type Library struct{}

// Open always returns ErrUnsupported.
func Open(path string) (*Library, error) {
	return nil, ErrUnsupported
}

// Path returns an empty string.
func (l *Library) Path() string { return "" }

// Lookup always returns ErrUnsupported.
func (l *Library) Lookup(name string) (uintptr, error) { return 0, ErrUnsupported }

// API always returns ErrUnsupported.
func (l *Library) API() (*API, error) { return nil, ErrUnsupported }

// Close is a no-op.
func (l *Library) Close() error { return nil }

func callVoid(fn, arg uintptr) {}
