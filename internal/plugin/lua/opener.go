package lua

import (
	"fmt"

	"github.com/4inzler/Parallax-engine/internal/plugin"
	"github.com/4inzler/Parallax-engine/internal/plugin/abi"
)

// Extension is the file extension of script plugins.
const Extension = ".lua"

// Opener lets the plugin manager load .lua files.
type Opener struct {
	opts []Option
}

// NewOpener returns an opener whose scripts are built with opts.
func NewOpener(opts ...Option) *Opener {
	return &Opener{opts: opts}
}

// Extensions returns the script extension.
func (o *Opener) Extensions() []string {
	return []string{Extension}
}

// Open runs the script's top-level chunk so its info table can be read.
// Syntax and runtime errors there fail the open. The manager rejects
// duplicate names only after Open, so the chunk also runs for a duplicate;
// it runs without a host, and on_load does not run.
func (o *Opener) Open(path string) (plugin.Library, error) {
	p, err := NewScriptPlugin(path, o.opts...)
	if err != nil {
		return nil, err
	}
	return &scriptLibrary{plugin: p}, nil
}

type scriptLibrary struct {
	plugin *ScriptPlugin
}

func (l *scriptLibrary) LookupAPI() (*abi.API, error) {
	return nil, fmt.Errorf("%s: %w", l.plugin.Path(), abi.ErrSymbolNotFound)
}

func (l *scriptLibrary) LookupFactory() (plugin.Factory, error) {
	return func() plugin.Plugin { return l.plugin }, nil
}

func (l *scriptLibrary) Close() error {
	return l.plugin.Close()
}
