package lua

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/4inzler/Parallax-engine/internal/plugin"
)

// Script globals.
const (
	globalInfo     = "info"
	globalOnLoad   = "on_load"
	globalOnUnload = "on_unload"
	globalOnUpdate = "on_update"
	globalOnGUI    = "on_gui"
)

// Option configures script plugins.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	timeout time.Duration
}

// WithLogger sets the logger used before a host is attached.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTimeout bounds each call into a script.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

func newOptions(opts []Option) options {
	o := options{logger: zap.NewNop(), timeout: DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ScriptPlugin runs a Lua file as an editor plugin.
//
// The script may define an info table and the globals on_load, on_unload,
// on_update(dt) and on_gui. It reaches the editor through
// require("parallax").
type ScriptPlugin struct {
	path  string
	state *State
	info  plugin.Info

	mu     sync.Mutex
	host   plugin.Host
	logger *zap.Logger
}

// NewScriptPlugin executes the script at path and reads its info table.
func NewScriptPlugin(path string, opts ...Option) (*ScriptPlugin, error) {
	o := newOptions(opts)
	p := &ScriptPlugin{
		path:   path,
		state:  NewState(WithExecutionTimeout(o.timeout)),
		logger: o.logger.With(zap.String("script", filepath.Base(path))),
	}

	sandbox := NewSandbox(p.state.L, p.logger)
	sandbox.Allow(ModuleName)
	sandbox.Install()
	p.state.PreloadModule(ModuleName, p.openModule)

	if err := p.state.DoFile(path); err != nil {
		p.state.Close()
		return nil, fmt.Errorf("run %s: %w", path, err)
	}
	p.info = p.readInfo()
	return p, nil
}

// Path returns the script file.
func (p *ScriptPlugin) Path() string {
	return p.path
}

// Info returns the script's info table. A missing name falls back to the
// file name without extension.
func (p *ScriptPlugin) Info() plugin.Info {
	info := p.info
	info.Dependencies = slices.Clone(info.Dependencies)
	return info
}

// OnLoad attaches host and runs on_load.
func (p *ScriptPlugin) OnLoad(host plugin.Host) error {
	p.mu.Lock()
	p.host = host
	if host != nil {
		p.logger = host.Logger()
	}
	p.mu.Unlock()

	ret, found, err := p.state.CallGlobal(globalOnLoad)
	if err != nil {
		p.detach()
		return err
	}
	if found && ret == lua.LFalse {
		p.detach()
		return ErrLoadRejected
	}
	return nil
}

// OnUnload runs on_unload and detaches the host.
func (p *ScriptPlugin) OnUnload() {
	p.callHook(globalOnUnload)
	p.detach()
}

// OnUpdate runs on_update(dt).
func (p *ScriptPlugin) OnUpdate(dt float32) {
	p.callHook(globalOnUpdate, lua.LNumber(dt))
}

// OnGUI runs on_gui.
func (p *ScriptPlugin) OnGUI() {
	p.callHook(globalOnGUI)
}

// Close releases the Lua state.
func (p *ScriptPlugin) Close() error {
	return p.state.Close()
}

func (p *ScriptPlugin) callHook(name string, args ...lua.LValue) {
	if _, _, err := p.state.CallGlobal(name, args...); err != nil {
		p.log().Error("script hook failed", zap.String("hook", name), zap.Error(err))
	}
}

func (p *ScriptPlugin) detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.host = nil
}

func (p *ScriptPlugin) currentHost() plugin.Host {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.host
}

func (p *ScriptPlugin) log() *zap.Logger {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.logger
}

func (p *ScriptPlugin) readInfo() plugin.Info {
	info := plugin.Info{}
	if t, ok := p.state.GetGlobal(globalInfo).(*lua.LTable); ok {
		info.Name = tableString(t, "name")
		info.Version = tableString(t, "version")
		info.Author = tableString(t, "author")
		info.Description = tableString(t, "description")
		info.Dependencies = tableStrings(t, "dependencies")
	}
	if info.Name == "" {
		info.Name = strings.TrimSuffix(filepath.Base(p.path), filepath.Ext(p.path))
	}
	return info
}

func tableString(t *lua.LTable, key string) string {
	if s, ok := t.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

func tableBool(t *lua.LTable, key string) bool {
	return lua.LVAsBool(t.RawGetString(key))
}

// tableStrings reads the string entries of an array field, skipping others.
func tableStrings(t *lua.LTable, key string) []string {
	list, ok := t.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	for i := 1; i <= list.Len(); i++ {
		if s, ok := list.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}
