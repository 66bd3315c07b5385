// Package abi implements version 1 of the Parallax C plugin ABI.
//
// A foreign plugin is a shared library exporting
//
//	const ParallaxPluginApi *ParallaxGetPluginApi(void);
//
// The returned table carries the ABI version, a metadata block and up to four
// lifecycle functions. The host hands the plugin a context with two callbacks
// (menu registration and logging) and an opaque user-data value.
//
// # Memory and ownership
//
// Every string the plugin exposes is copied into Go memory while decoding;
// the host never keeps pointers into library memory after the call that
// produced them. The host context is allocated by the host, pinned for the
// lifetime of the plugin and released by API.Detach. host_user_data is an
// integer handle, not a pointer.
//
// # Platforms
//
// Libraries are loaded with purego on Linux, macOS and FreeBSD, and with
// LoadLibrary on Windows. Neither path needs cgo. Other platforms return
// ErrUnsupported from Open.
//
// Faults inside foreign code (segmentation violations, aborts) cannot be
// recovered and terminate the process.
package abi
