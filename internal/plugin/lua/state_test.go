package lua

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"
)

func TestStateDoStringAndCallGlobal(t *testing.T) {
	s := NewState()
	defer s.Close()

	require.NoError(t, s.DoString(`function add(a, b) return a + b end`))

	ret, found, err := s.CallGlobal("add", glua.LNumber(2), glua.LNumber(3))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, glua.LNumber(5), ret)

	_, found, err = s.CallGlobal("missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStateCallReportsLuaErrors(t *testing.T) {
	s := NewState()
	defer s.Close()

	require.NoError(t, s.DoString(`function boom() error("boom") end`))

	_, found, err := s.CallGlobal("boom")
	assert.True(t, found)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestStateExecutionTimeout(t *testing.T) {
	s := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer s.Close()

	err := s.DoString(`while true do end`)
	assert.ErrorIs(t, err, ErrExecutionTimeout)

	require.NoError(t, s.DoString(`x = 1`), "state stays usable after a timeout")
	assert.Equal(t, glua.LNumber(1), s.GetGlobal("x"))
}

func TestStateClosed(t *testing.T) {
	s := NewState()
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.True(t, s.IsClosed())
	assert.ErrorIs(t, s.DoString(`x = 1`), ErrStateClosed)
	_, _, err := s.CallGlobal("x")
	assert.ErrorIs(t, err, ErrStateClosed)
	assert.Equal(t, glua.LNil, s.GetGlobal("x"))
}

func TestStateOpensOnlySafeLibraries(t *testing.T) {
	s := NewState()
	defer s.Close()

	for _, name := range []string{"string", "table", "math"} {
		assert.NotEqual(t, glua.LNil, s.GetGlobal(name), name)
	}
	for _, name := range []string{"io", "os", "debug"} {
		assert.Equal(t, glua.LNil, s.GetGlobal(name), name)
	}
}
