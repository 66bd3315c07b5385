package lua

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/4inzler/Parallax-engine/internal/plugin"
	"github.com/4inzler/Parallax-engine/internal/plugin/abi"
)

// ModuleName is the module scripts require to reach the editor.
const ModuleName = "parallax"

func (p *ScriptPlugin) openModule(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"register_menu_item": p.luaRegisterMenuItem,
		"log":                p.luaLog,
	})
	L.SetField(mod, "LOG_INFO", lua.LNumber(abi.LogInfo))
	L.SetField(mod, "LOG_WARN", lua.LNumber(abi.LogWarn))
	L.SetField(mod, "LOG_ERROR", lua.LNumber(abi.LogError))
	L.Push(mod)
	return 1
}

// luaRegisterMenuItem implements parallax.register_menu_item{...}. It
// returns false when no host is attached or the path is empty.
func (p *ScriptPlugin) luaRegisterMenuItem(L *lua.LState) int {
	t := L.CheckTable(1)
	host := p.currentHost()
	path := tableString(t, "path")
	if host == nil || path == "" {
		L.Push(lua.LFalse)
		return 1
	}

	item := plugin.MenuItem{
		Path:      path,
		Icon:      tableString(t, "icon"),
		Shortcut:  tableString(t, "shortcut"),
		Separator: tableBool(t, "separator"),
	}
	if fn, ok := t.RawGetString("callback").(*lua.LFunction); ok {
		item.Callback = func() {
			if _, err := p.state.Call(fn); err != nil {
				p.log().Error("menu callback failed", zap.String("path", path), zap.Error(err))
			}
		}
	}
	host.RegisterMenuItem(item)
	L.Push(lua.LTrue)
	return 1
}

// luaLog implements parallax.log(level, message). level is one of the
// LOG_* constants or "info", "warn", "error".
func (p *ScriptPlugin) luaLog(L *lua.LState) int {
	level := abi.LogInfo
	switch v := L.Get(1).(type) {
	case lua.LNumber:
		level = abi.LogLevel(v)
	case lua.LString:
		switch string(v) {
		case "warn", "warning":
			level = abi.LogWarn
		case "error":
			level = abi.LogError
		}
	}
	msg := L.CheckString(2)

	logger := p.log()
	switch level {
	case abi.LogError:
		logger.Error(msg)
	case abi.LogWarn:
		logger.Warn(msg)
	default:
		logger.Info(msg)
	}
	return 0
}
