package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// safeModules may be required in addition to preloaded modules.
var safeModules = map[string]bool{
	lua.TabLibName:    true,
	lua.StringLibName: true,
	lua.MathLibName:   true,
}

// removedGlobals load code from disk or strings.
var removedGlobals = []string{"dofile", "loadfile", "load", "loadstring"}

// openSafeLibraries opens package, base, table, string and math. io, os and
// debug stay closed.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage},
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// Sandbox restricts what a plugin script can reach.
type Sandbox struct {
	L      *lua.LState
	logger *zap.Logger

	// preloaded names modules registered through PreloadModule.
	preloaded map[string]bool
}

// NewSandbox creates a sandbox for L. print output goes to logger.
func NewSandbox(L *lua.LState, logger *zap.Logger) *Sandbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sandbox{L: L, logger: logger, preloaded: make(map[string]bool)}
}

// Allow lets require load a preloaded module.
func (s *Sandbox) Allow(module string) {
	s.preloaded[module] = true
}

// Install removes the loaders and replaces print and require.
func (s *Sandbox) Install() {
	for _, name := range removedGlobals {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installPrint()
	s.installRequire()
}

func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		s.logger.Info(strings.Join(parts, "\t"), zap.String("source", "print"))
		return 0
	}))
}

// installRequire clears the search paths and only lets whitelisted or
// preloaded modules through.
func (s *Sandbox) installRequire() {
	if pkg, ok := s.L.GetGlobal(lua.LoadLibName).(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	builtin := s.L.GetGlobal("require")
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !safeModules[name] && !s.preloaded[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(builtin)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}
