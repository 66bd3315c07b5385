package abi

import (
	"sync"
	"unsafe"
)

// C layouts of the ABI v1 structures. Field order and widths mirror the C
// header for 64-bit targets; Go inserts the same padding a C compiler does.

type pluginInfoC struct {
	name            *byte
	version         *byte
	author          *byte
	description     *byte
	dependencies    **byte
	dependencyCount uint32
}

type pluginAPIC struct {
	abiVersion uint32
	info       pluginInfoC
	onLoad     uintptr
	onUnload   uintptr
	onUpdate   uintptr
	onGUI      uintptr
}

type menuItemC struct {
	menuPath  *byte
	icon      *byte
	shortcut  *byte
	callback  uintptr
	userData  uintptr
	separator bool
}

type hostContextC struct {
	registerMenuItem uintptr
	log              uintptr
	hostUserData     uintptr
}

// decodeInfo copies the metadata block into Go memory. Null strings become
// empty and null dependency entries are skipped.
func decodeInfo(c *pluginInfoC) Info {
	info := Info{
		Name:        goString(c.name),
		Version:     goString(c.version),
		Author:      goString(c.author),
		Description: goString(c.description),
	}
	if c.dependencies == nil || c.dependencyCount == 0 {
		return info
	}
	deps := unsafe.Slice(c.dependencies, c.dependencyCount)
	info.Dependencies = make([]string, 0, len(deps))
	for _, dep := range deps {
		if dep == nil {
			continue
		}
		info.Dependencies = append(info.Dependencies, goString(dep))
	}
	return info
}

// hostTable maps the opaque host_user_data handles given to plugins back to
// their Host. Handles are plain integers so no Go pointer crosses the boundary.
type hostTable struct {
	mu    sync.Mutex
	next  uintptr
	hosts map[uintptr]Host
}

var hosts = &hostTable{hosts: make(map[uintptr]Host)}

func (t *hostTable) add(h Host) uintptr {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.hosts[t.next] = h
	return t.next
}

func (t *hostTable) get(handle uintptr) Host {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hosts[handle]
}

func (t *hostTable) remove(handle uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.hosts, handle)
}

func (t *hostTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.hosts)
}

// dispatchMenuItem serves register_menu_item. It fails closed on a null item
// or a handle that is no longer bound.
func dispatchMenuItem(item *menuItemC, handle uintptr) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if item == nil {
		return false
	}
	host := hosts.get(handle)
	if host == nil {
		return false
	}
	mi := MenuItem{
		Path:      goString(item.menuPath),
		Icon:      goString(item.icon),
		Shortcut:  goString(item.shortcut),
		Separator: item.separator,
	}
	if item.callback != 0 {
		fn, userData := item.callback, item.userData
		mi.Callback = func() { callVoid(fn, userData) }
	}
	return host.RegisterMenuItem(mi)
}

// dispatchLog serves the log callback. Messages for unbound handles are dropped.
func dispatchLog(level int32, msg *byte, handle uintptr) {
	defer func() { _ = recover() }()
	host := hosts.get(handle)
	if host == nil {
		return
	}
	host.Log(LogLevel(level), goString(msg))
}
