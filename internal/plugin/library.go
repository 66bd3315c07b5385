package plugin

import (
	"runtime"

	"github.com/4inzler/Parallax-engine/internal/plugin/abi"
)

// FactorySymbol is the symbol a native Go plugin exports.
const FactorySymbol = "CreatePlugin"

// Library is an opened plugin file.
//
// LookupAPI returns the C ABI table, or an error wrapping
// abi.ErrSymbolNotFound when the library does not export one.
// LookupFactory does the same for the native factory.
type Library interface {
	LookupAPI() (*abi.API, error)
	LookupFactory() (Factory, error)
	Close() error
}

// Opener opens plugin files with particular extensions.
type Opener interface {
	Open(path string) (Library, error)
	Extensions() []string
}

// NativeExtension returns the shared library extension of the running platform.
func NativeExtension() string {
	switch runtime.GOOS {
	case "windows":
		return ".dll"
	case "darwin", "ios":
		return ".dylib"
	default:
		return ".so"
	}
}

// NativeOpener opens platform shared libraries.
type NativeOpener struct{}

// Extensions returns the platform shared library extension.
func (NativeOpener) Extensions() []string {
	return []string{NativeExtension()}
}

// Open maps the library at path.
func (NativeOpener) Open(path string) (Library, error) {
	lib, err := abi.Open(path)
	if err != nil {
		return nil, err
	}
	return &nativeLibrary{lib: lib}, nil
}

type nativeLibrary struct {
	lib *abi.Library
}

func (l *nativeLibrary) LookupAPI() (*abi.API, error) {
	return l.lib.API()
}

func (l *nativeLibrary) LookupFactory() (Factory, error) {
	return lookupGoFactory(l.lib)
}

func (l *nativeLibrary) Close() error {
	return l.lib.Close()
}
