package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/4inzler/Parallax-engine/internal/plugin/abi"
)

const testExt = ".plg"

// callLog records boundary calls in order.
type callLog struct {
	calls []string
}

func (c *callLog) add(format string, args ...any) {
	c.calls = append(c.calls, fmt.Sprintf(format, args...))
}

type fakeLibrary struct {
	log        *callLog
	api        *abi.API
	apiErr     error
	factory    Factory
	factoryErr error
	closed     int
}

func (l *fakeLibrary) LookupAPI() (*abi.API, error) {
	if l.apiErr != nil {
		return nil, l.apiErr
	}
	if l.api == nil {
		return nil, fmt.Errorf("%s: %w", abi.EntrySymbol, abi.ErrSymbolNotFound)
	}
	return l.api, nil
}

func (l *fakeLibrary) LookupFactory() (Factory, error) {
	if l.factoryErr != nil {
		return nil, l.factoryErr
	}
	if l.factory == nil {
		return nil, fmt.Errorf("%s: %w", FactorySymbol, abi.ErrSymbolNotFound)
	}
	return l.factory, nil
}

func (l *fakeLibrary) Close() error {
	l.closed++
	if l.log != nil {
		l.log.add("close")
	}
	return nil
}

// fakeOpener serves fakeLibrary values by file base name.
type fakeOpener struct {
	libs   map[string]*fakeLibrary
	opened []string
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{libs: make(map[string]*fakeLibrary)}
}

func (o *fakeOpener) Extensions() []string { return []string{testExt} }

func (o *fakeOpener) Open(path string) (Library, error) {
	o.opened = append(o.opened, path)
	lib, ok := o.libs[filepath.Base(path)]
	if !ok {
		return nil, fmt.Errorf("cannot open %s", path)
	}
	return lib, nil
}

// openHandles counts libraries that were opened and not closed.
func (o *fakeOpener) openHandles() int {
	n := 0
	for _, path := range o.opened {
		if lib, ok := o.libs[filepath.Base(path)]; ok && lib.closed == 0 {
			n++
		}
	}
	return n
}

// fixture is a manager wired to a fake opener and a temp plugin directory.
type fixture struct {
	t      *testing.T
	dir    string
	opener *fakeOpener
	mgr    *Manager
	logs   *observer.ObservedLogs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	opener := newFakeOpener()
	return &fixture{
		t:      t,
		dir:    t.TempDir(),
		opener: opener,
		mgr:    NewManager(WithoutNativeLibraries(), WithOpener(opener), WithLogger(zap.New(core))),
		logs:   logs,
	}
}

// add creates file on disk and registers lib for it.
func (f *fixture) add(file string, lib *fakeLibrary) string {
	f.t.Helper()
	path := filepath.Join(f.dir, file)
	require.NoError(f.t, os.WriteFile(path, []byte("lib"), 0o644))
	f.opener.libs[file] = lib
	return path
}

// cPlugin builds a C ABI table backed by Go functions that record into log.
func cPlugin(name string, log *callLog) *abi.API {
	return &abi.API{
		Version: abi.Version,
		Info:    abi.Info{Name: name, Version: "1.0.0", Author: "tests"},
		OnLoad: func(host abi.Host, state *abi.State) bool {
			log.add("%s:on_load", name)
			host.RegisterMenuItem(abi.MenuItem{Path: "Tools/" + name + "/Run"})
			*state = 42
			return true
		},
		OnUnload: func(state abi.State) { log.add("%s:on_unload:%d", name, state) },
		OnUpdate: func(state abi.State, dt float32) { log.add("%s:on_update", name) },
		OnGUI:    func(state abi.State) { log.add("%s:on_gui", name) },
	}
}

// goPlugin is a native Go plugin fake.
type goPlugin struct {
	info     Info
	log      *callLog
	onLoad   func(Host) error
	onUpdate func()
}

func (p *goPlugin) Info() Info { return p.info }

func (p *goPlugin) OnLoad(host Host) error {
	p.log.add("%s:OnLoad", p.info.Name)
	if p.onLoad != nil {
		return p.onLoad(host)
	}
	return nil
}

func (p *goPlugin) OnUnload() { p.log.add("%s:OnUnload", p.info.Name) }

func (p *goPlugin) OnUpdate(float32) {
	if p.onUpdate != nil {
		p.onUpdate()
	}
	p.log.add("%s:OnUpdate", p.info.Name)
}

func (p *goPlugin) OnGUI() { p.log.add("%s:OnGUI", p.info.Name) }

func goFactory(p *goPlugin) Factory {
	return func() Plugin { return p }
}

type fakePanel struct {
	title   string
	renders int
	panic   bool
}

func (p *fakePanel) Title() string { return p.title }

func (p *fakePanel) Render() {
	if p.panic {
		panic("render")
	}
	p.renders++
}

type fakeImporter struct {
	name string
	exts []string
}

func (i *fakeImporter) Name() string         { return i.name }
func (i *fakeImporter) Extensions() []string { return i.exts }
func (i *fakeImporter) Import(string) error  { return nil }
