//go:build cgo && (linux || darwin || freebsd)

package plugin

import (
	"debug/elf"
	"debug/macho"
	"fmt"
	goplugin "plugin"
	"runtime"
	"slices"
	"strings"

	"github.com/4inzler/Parallax-engine/internal/plugin/abi"
)

// goPluginMarkers are symbols the Go linker emits only for -buildmode=plugin.
var goPluginMarkers = []string{"go:plugin.tabs", "go.plugin.tabs", "go:plugin.exports", "go.plugin.exports"}

// lookupGoFactory resolves CreatePlugin from a library built with
// -buildmode=plugin. Anything else is reported as having no factory without
// reaching the runtime loader, which aborts the process on foreign objects.
// The runtime never unmaps Go plugins, so the code of an unloaded Go plugin
// stays resident until exit.
func lookupGoFactory(lib *abi.Library) (Factory, error) {
	if !isGoPlugin(lib) {
		return nil, fmt.Errorf("%s: %w", FactorySymbol, abi.ErrSymbolNotFound)
	}
	p, err := goplugin.Open(lib.Path())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", FactorySymbol, abi.ErrSymbolNotFound)
	}
	sym, err := p.Lookup(FactorySymbol)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", FactorySymbol, abi.ErrSymbolNotFound)
	}
	switch f := sym.(type) {
	case func() Plugin:
		return f, nil
	case *Factory:
		return *f, nil
	default:
		return nil, fmt.Errorf("%s has type %T: %w", FactorySymbol, sym, ErrInvalidPlugin)
	}
}

// isGoPlugin checks the open handle first and falls back to the file's
// symbol tables, where the markers stay visible even when not exported.
func isGoPlugin(lib *abi.Library) bool {
	for _, name := range goPluginMarkers {
		if _, err := lib.Lookup(name); err == nil {
			return true
		}
	}
	names, err := fileSymbols(lib.Path())
	if err != nil {
		return false
	}
	return slices.ContainsFunc(names, func(name string) bool {
		return slices.Contains(goPluginMarkers, name)
	})
}

func fileSymbols(path string) ([]string, error) {
	if runtime.GOOS == "darwin" {
		f, err := macho.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if f.Symtab == nil {
			return nil, nil
		}
		names := make([]string, 0, len(f.Symtab.Syms))
		for _, s := range f.Symtab.Syms {
			names = append(names, strings.TrimPrefix(s.Name, "_"))
		}
		return names, nil
	}

	f, err := elf.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var names []string
	for _, load := range []func() ([]elf.Symbol, error){f.Symbols, f.DynamicSymbols} {
		syms, err := load()
		if err != nil {
			continue
		}
		for _, s := range syms {
			names = append(names, s.Name)
		}
	}
	return names, nil
}
