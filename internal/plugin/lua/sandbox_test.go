package lua

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sandboxed(t *testing.T) (*State, *Sandbox, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewState()
	t.Cleanup(func() { s.Close() })
	sb := NewSandbox(s.L, zap.New(core))
	return s, sb, logs
}

func TestSandboxRemovesLoaders(t *testing.T) {
	s, sb, _ := sandboxed(t)
	sb.Install()

	for _, name := range removedGlobals {
		assert.Equal(t, glua.LNil, s.GetGlobal(name), name)
	}
}

func TestSandboxRequire(t *testing.T) {
	s, sb, _ := sandboxed(t)
	s.PreloadModule("greeting", func(L *glua.LState) int {
		L.Push(glua.LString("hello"))
		return 1
	})
	s.PreloadModule("hidden", func(L *glua.LState) int {
		L.Push(glua.LString("secret"))
		return 1
	})
	sb.Allow("greeting")
	sb.Install()

	require.NoError(t, s.DoString(`g = require("greeting"); m = require("math").floor(2.5)`))
	assert.Equal(t, glua.LString("hello"), s.GetGlobal("g"))
	assert.Equal(t, glua.LNumber(2), s.GetGlobal("m"))

	err := s.DoString(`require("hidden")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `module "hidden" is not available`)

	assert.Error(t, s.DoString(`require("os")`))
}

func TestSandboxPrintGoesToLogger(t *testing.T) {
	s, sb, logs := sandboxed(t)
	sb.Install()

	require.NoError(t, s.DoString(`print("hello", 42, nil)`))

	entries := logs.FilterMessage("hello\t42\tnil").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "print", entries[0].ContextMap()["source"])
}
