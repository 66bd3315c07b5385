package abi

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cstr(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}

type recordingHost struct {
	items []MenuItem
	logs  []string
	level []LogLevel
	panic bool
}

func (h *recordingHost) RegisterMenuItem(item MenuItem) bool {
	if h.panic {
		panic("boom")
	}
	h.items = append(h.items, item)
	return true
}

func (h *recordingHost) Log(level LogLevel, msg string) {
	h.level = append(h.level, level)
	h.logs = append(h.logs, msg)
}

func TestLayoutMatchesCHeader(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layout checks assume a 64-bit target")
	}

	assert.Equal(t, uintptr(48), unsafe.Sizeof(pluginInfoC{}))
	assert.Equal(t, uintptr(40), unsafe.Offsetof(pluginInfoC{}.dependencyCount))

	var api pluginAPIC
	assert.Equal(t, uintptr(8), unsafe.Offsetof(api.info))
	assert.Equal(t, uintptr(56), unsafe.Offsetof(api.onLoad))
	assert.Equal(t, uintptr(80), unsafe.Offsetof(api.onGUI))
	assert.Equal(t, uintptr(88), unsafe.Sizeof(api))

	assert.Equal(t, uintptr(40), unsafe.Offsetof(menuItemC{}.separator))
	assert.Equal(t, uintptr(48), unsafe.Sizeof(menuItemC{}))
	assert.Equal(t, uintptr(24), unsafe.Sizeof(hostContextC{}))
}

func TestDecodeInfo(t *testing.T) {
	deps := []*byte{cstr("core"), nil, cstr("physics")}
	c := pluginInfoC{
		name:            cstr("Example"),
		version:         cstr("1.2.0"),
		author:          cstr("Parallax"),
		description:     cstr("does things"),
		dependencies:    &deps[0],
		dependencyCount: uint32(len(deps)),
	}

	info := decodeInfo(&c)

	assert.Equal(t, "Example", info.Name)
	assert.Equal(t, "1.2.0", info.Version)
	assert.Equal(t, "Parallax", info.Author)
	assert.Equal(t, "does things", info.Description)
	assert.Equal(t, []string{"core", "physics"}, info.Dependencies)
}

func TestDecodeInfoNullFields(t *testing.T) {
	info := decodeInfo(&pluginInfoC{})
	assert.Equal(t, Info{}, info)

	deps := []*byte{cstr("ignored")}
	info = decodeInfo(&pluginInfoC{dependencies: &deps[0], dependencyCount: 0})
	assert.Empty(t, info.Dependencies)
}

func TestDispatchMenuItem(t *testing.T) {
	host := &recordingHost{}
	handle := hosts.add(host)
	defer hosts.remove(handle)

	ok := dispatchMenuItem(&menuItemC{
		menuPath:  cstr("Tools/Example/Run"),
		shortcut:  cstr("Ctrl+Alt+P"),
		separator: true,
	}, handle)

	require.True(t, ok)
	require.Len(t, host.items, 1)
	item := host.items[0]
	assert.Equal(t, "Tools/Example/Run", item.Path)
	assert.Equal(t, "", item.Icon)
	assert.Equal(t, "Ctrl+Alt+P", item.Shortcut)
	assert.True(t, item.Separator)
	assert.Nil(t, item.Callback)
}

func TestDispatchMenuItemFailsClosed(t *testing.T) {
	host := &recordingHost{}
	handle := hosts.add(host)

	assert.False(t, dispatchMenuItem(nil, handle), "null item")

	hosts.remove(handle)
	assert.False(t, dispatchMenuItem(&menuItemC{menuPath: cstr("A")}, handle), "unbound handle")
	assert.Empty(t, host.items)

	panicking := &recordingHost{panic: true}
	handle = hosts.add(panicking)
	defer hosts.remove(handle)
	assert.False(t, dispatchMenuItem(&menuItemC{menuPath: cstr("A")}, handle), "host panic")
}

func TestDispatchLog(t *testing.T) {
	host := &recordingHost{}
	handle := hosts.add(host)
	defer hosts.remove(handle)

	dispatchLog(2, cstr("bad"), handle)
	dispatchLog(1, nil, handle)
	dispatchLog(42, cstr("odd"), handle)
	dispatchLog(0, cstr("lost"), handle+1000)

	assert.Equal(t, []string{"bad", "", "odd"}, host.logs)
	assert.Equal(t, []LogLevel{LogError, LogWarn, 42}, host.level)
	assert.Equal(t, "info", LogLevel(42).String())
}

func TestCheckVersion(t *testing.T) {
	assert.NoError(t, (&API{Version: Version}).CheckVersion())
	assert.ErrorIs(t, (&API{Version: Version + 1}).CheckVersion(), ErrVersionMismatch)
}

func TestHostTableHandlesAreUnique(t *testing.T) {
	before := hosts.len()
	a := hosts.add(&recordingHost{})
	b := hosts.add(&recordingHost{})
	assert.NotEqual(t, a, b)
	assert.Equal(t, before+2, hosts.len())
	hosts.remove(a)
	hosts.remove(b)
	assert.Equal(t, before, hosts.len())
}
