package plugin

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventHandler handles plugin manager events. Handlers run synchronously on
// the goroutine that changed the manager and must not call back into it.
// Panics in handlers are recovered.
type EventHandler func(event ManagerEvent)

// ManagerEvent represents a plugin manager event.
type ManagerEvent struct {
	Type   ManagerEventType
	Plugin string
	Path   string
	ID     uuid.UUID
	Error  error
}

// ManagerEventType is the type of manager event.
type ManagerEventType int

const (
	// EventPluginLoaded is emitted after a plugin is inserted.
	EventPluginLoaded ManagerEventType = iota
	// EventPluginUnloaded is emitted after a plugin's library is closed.
	EventPluginUnloaded
	// EventPluginFailed is emitted when a load attempt is rejected.
	EventPluginFailed
)

// String returns a string representation of the event type.
func (t ManagerEventType) String() string {
	switch t {
	case EventPluginLoaded:
		return "loaded"
	case EventPluginUnloaded:
		return "unloaded"
	case EventPluginFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// Subscribe registers a handler for manager events and returns a function
// that removes it.
func (m *Manager) Subscribe(handler EventHandler) func() {
	m.nextSub++
	id := m.nextSub
	m.handlers = append(m.handlers, subscription{id: id, handler: handler})
	return func() {
		for i, s := range m.handlers {
			if s.id == id {
				m.handlers = append(m.handlers[:i], m.handlers[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) emitEvent(event ManagerEvent) {
	handlers := append([]subscription(nil), m.handlers...)
	for _, s := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Error("plugin event handler panicked",
						zap.Stringer("event", event.Type),
						zap.Any("panic", r),
					)
				}
			}()
			s.handler(event)
		}()
	}
}
