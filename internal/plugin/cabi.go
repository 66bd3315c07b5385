package plugin

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/4inzler/Parallax-engine/internal/plugin/abi"
)

// CAbiAdapter presents a C ABI function table as a Plugin.
type CAbiAdapter struct {
	api   *abi.API
	info  Info
	hs    hostState
	state abi.State
	bound bool
}

// hostState is what a C plugin reaches through host_user_data.
type hostState struct {
	host Host
}

// NewCAbiAdapter wraps api. Metadata is copied immediately.
func NewCAbiAdapter(api *abi.API) (*CAbiAdapter, error) {
	if api == nil {
		return nil, abi.ErrNullAPI
	}
	return &CAbiAdapter{
		api: api,
		info: Info{
			Name:         api.Info.Name,
			Version:      api.Info.Version,
			Author:       api.Info.Author,
			Description:  api.Info.Description,
			Dependencies: append([]string(nil), api.Info.Dependencies...),
		},
	}, nil
}

// Info returns the metadata captured at construction.
func (a *CAbiAdapter) Info() Info {
	return a.info.clone()
}

// OnLoad binds the host and runs on_load. A table without on_load loads
// successfully with a zero state.
func (a *CAbiAdapter) OnLoad(host Host) error {
	a.hs = hostState{host: host}

	if a.api.OnLoad == nil {
		host.Logger().Warn("on_load not provided, skipping initialization")
		a.bound = true
		return nil
	}

	var state abi.State
	err := guard(func() error {
		if !a.api.OnLoad(&a.hs, &state) {
			return ErrInitFailed
		}
		return nil
	})
	if err != nil {
		if a.api.Detach != nil {
			a.api.Detach()
		}
		a.hs = hostState{}
		return fmt.Errorf("on_load: %w", err)
	}
	a.state = state
	a.bound = true
	return nil
}

// OnUnload runs on_unload with the state from on_load, then forgets the
// state and the host. It does nothing unless OnLoad succeeded and has not
// been undone yet.
func (a *CAbiAdapter) OnUnload() {
	if !a.bound {
		return
	}
	state := a.state
	a.state = 0
	a.bound = false

	if a.api.OnUnload != nil {
		a.call("on_unload", func() { a.api.OnUnload(state) })
	}
	if a.api.Detach != nil {
		a.api.Detach()
	}
	a.hs = hostState{}
}

// OnUpdate forwards to on_update.
func (a *CAbiAdapter) OnUpdate(dt float32) {
	if a.bound && a.api.OnUpdate != nil {
		a.call("on_update", func() { a.api.OnUpdate(a.state, dt) })
	}
}

// OnGUI forwards to on_gui.
func (a *CAbiAdapter) OnGUI() {
	if a.bound && a.api.OnGUI != nil {
		a.call("on_gui", func() { a.api.OnGUI(a.state) })
	}
}

func (a *CAbiAdapter) call(hook string, fn func()) {
	err := guard(func() error {
		fn()
		return nil
	})
	if err != nil && a.hs.host != nil {
		a.hs.host.Logger().Error("plugin hook failed", zap.String("hook", hook), zap.Error(err))
	}
}

// RegisterMenuItem serves register_menu_item. It fails closed when no host
// is bound. A missing callback becomes a no-op.
func (s *hostState) RegisterMenuItem(item abi.MenuItem) bool {
	if s.host == nil {
		return false
	}
	callback := item.Callback
	if callback == nil {
		callback = func() {}
	}
	s.host.RegisterMenuItem(MenuItem{
		Path:      item.Path,
		Icon:      item.Icon,
		Shortcut:  item.Shortcut,
		Callback:  callback,
		Separator: item.Separator,
	})
	return true
}

// Log serves the log callback.
func (s *hostState) Log(level abi.LogLevel, msg string) {
	if s.host == nil {
		return
	}
	logger := s.host.Logger()
	switch level {
	case abi.LogError:
		logger.Error(msg)
	case abi.LogWarn:
		logger.Warn(msg)
	default:
		logger.Info(msg)
	}
}

// guard runs fn and converts a panic into ErrPluginPanic.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPluginPanic, r)
		}
	}()
	return fn()
}
