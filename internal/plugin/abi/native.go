//go:build darwin || freebsd || linux || windows

package abi

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"
)

// Library is a dynamically loaded native library.
type Library struct {
	path   string
	handle uintptr
	closed bool
}

// Open maps the library at path into the process.
func Open(path string) (*Library, error) {
	handle, err := openLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Library{path: path, handle: handle}, nil
}

// Path returns the file the library was opened from.
func (l *Library) Path() string {
	return l.path
}

// Lookup resolves an exported symbol.
func (l *Library) Lookup(name string) (uintptr, error) {
	if l.closed {
		return 0, ErrLibraryClosed
	}
	sym, err := lookupSymbol(l.handle, name)
	if err != nil || sym == 0 {
		return 0, fmt.Errorf("%s: %w", name, ErrSymbolNotFound)
	}
	return sym, nil
}

// API calls the plugin entry point and decodes the table it returns.
// ErrSymbolNotFound means the library does not speak the C ABI at all.
func (l *Library) API() (*API, error) {
	var sym uintptr
	var err error
	for _, name := range []string{EntrySymbol, EntrySymbolAlias} {
		if sym, err = l.Lookup(name); err == nil {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	var getAPI func() unsafe.Pointer
	purego.RegisterFunc(&getAPI, sym)
	table := getAPI()
	if table == nil {
		return nil, ErrNullAPI
	}
	return bindAPI((*pluginAPIC)(table)), nil
}

// Close unmaps the library. Closing twice is a no-op.
func (l *Library) Close() error {
	if l.closed {
		return nil
	}
	l.closed = true
	return closeLibrary(l.handle)
}

// bindAPI decodes the table and wraps its function pointers. Functions of a
// table with a foreign ABI version are left unbound.
func bindAPI(c *pluginAPIC) *API {
	api := &API{
		Version: c.abiVersion,
		Info:    decodeInfo(&c.info),
	}
	if c.abiVersion != Version {
		return api
	}

	s := &session{}
	if c.onLoad != 0 {
		var onLoad func(host *hostContextC, state *uintptr) bool
		purego.RegisterFunc(&onLoad, c.onLoad)
		api.OnLoad = func(host Host, state *State) bool {
			return s.load(onLoad, host, state)
		}
		api.Detach = s.detach
	}
	if c.onUnload != 0 {
		var onUnload func(state uintptr)
		purego.RegisterFunc(&onUnload, c.onUnload)
		api.OnUnload = func(state State) { onUnload(uintptr(state)) }
	}
	if c.onUpdate != 0 {
		var onUpdate func(state uintptr, dt float32)
		purego.RegisterFunc(&onUpdate, c.onUpdate)
		api.OnUpdate = func(state State, dt float32) { onUpdate(uintptr(state), dt) }
	}
	if c.onGUI != 0 {
		var onGUI func(state uintptr)
		purego.RegisterFunc(&onGUI, c.onGUI)
		api.OnGUI = func(state State) { onGUI(uintptr(state)) }
	}
	return api
}

// session owns the host context handed to a plugin. The context is pinned
// because a plugin may keep the pointer and call back after on_load returns.
type session struct {
	pinner runtime.Pinner
	ctx    *hostContextC
	handle uintptr
}

func (s *session) load(onLoad func(*hostContextC, *uintptr) bool, host Host, state *State) bool {
	s.detach()

	menu, log := trampolines()
	s.handle = hosts.add(host)
	s.ctx = &hostContextC{
		registerMenuItem: menu,
		log:              log,
		hostUserData:     s.handle,
	}
	s.pinner.Pin(s.ctx)

	var out uintptr
	if !onLoad(s.ctx, &out) {
		s.detach()
		return false
	}
	*state = State(out)
	return true
}

func (s *session) detach() {
	if s.ctx == nil {
		return
	}
	hosts.remove(s.handle)
	s.pinner.Unpin()
	s.ctx = nil
	s.handle = 0
}

var (
	trampolineOnce sync.Once
	menuTrampoline uintptr
	logTrampoline  uintptr
)

// trampolines returns the C entry points of the host callbacks. Callbacks are
// a limited process-wide resource, so they are created once and shared by
// every plugin; host_user_data selects the target.
func trampolines() (menu, log uintptr) {
	trampolineOnce.Do(func() {
		menuTrampoline = purego.NewCallback(func(item, userData uintptr) uintptr {
			if dispatchMenuItem((*menuItemC)(unsafe.Pointer(item)), userData) {
				return 1
			}
			return 0
		})
		logTrampoline = purego.NewCallback(func(level, msg, userData uintptr) uintptr {
			dispatchLog(int32(level), (*byte)(unsafe.Pointer(msg)), userData)
			return 0
		})
	})
	return menuTrampoline, logTrampoline
}

func callVoid(fn, arg uintptr) {
	purego.SyscallN(fn, arg)
}
