package lua

import "errors"

var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when a chunk or callback runs past the
	// execution timeout.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrLoadRejected is returned when a script's on_load returns false.
	ErrLoadRejected = errors.New("on_load returned false")
)
