package ecs

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// EntitySource enumerates entities whose signature contains a requirement.
// World implements it for group systems.
type EntitySource interface {
	Matching(required Signature) []Entity
}

// SystemManager maps each system type to its instance and its required
// signature, and keeps query system membership in step with entity
// signatures. It is driven by whoever mutates entity composition, normally
// a World. It is not safe for concurrent use.
type SystemManager struct {
	logger  *zap.Logger
	systems map[reflect.Type]*systemEntry
	order   []*systemEntry
	source  EntitySource
}

type systemEntry struct {
	typ          reflect.Type
	system       System
	query        *QuerySystem
	signature    Signature
	hasSignature bool
	warnedUnset  bool
}

// NewSystemManager creates an empty manager. A nil logger discards output.
func NewSystemManager(logger *zap.Logger) *SystemManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SystemManager{
		logger:  logger,
		systems: make(map[reflect.Type]*systemEntry),
	}
}

// RegisterQuerySystem constructs and stores the query system T. It returns
// nil if T is already registered.
func RegisterQuerySystem[T any, PT interface {
	*T
	QueryMember
}](m *SystemManager) PT {
	typ := reflect.TypeFor[T]()
	if m.registered(typ) {
		return nil
	}
	sys := PT(new(T))
	m.add(&systemEntry{typ: typ, system: sys, query: sys.queryBase()})
	return sys
}

// RegisterGroupSystem constructs and stores the group system T. It returns
// nil if T is already registered.
func RegisterGroupSystem[T any, PT interface {
	*T
	GroupMember
}](m *SystemManager) PT {
	typ := reflect.TypeFor[T]()
	if m.registered(typ) {
		return nil
	}
	sys := PT(new(T))
	entry := &systemEntry{typ: typ, system: sys}
	sys.groupBase().members = func() []Entity { return m.groupMembers(entry) }
	m.add(entry)
	return sys
}

// SetSignature sets the component requirement of T. When the manager
// belongs to a World, a query system's membership is rebuilt from the
// world's live entities. A standalone manager cannot see existing
// entities, so it keeps the current members and logs a warning if there
// are any; set signatures before populating it.
func SetSignature[T any](m *SystemManager, sig Signature) error {
	typ := reflect.TypeFor[T]()
	entry, ok := m.systems[typ]
	if !ok {
		return fmt.Errorf("%s: %w", typ, ErrSystemNotRegistered)
	}
	if sig.IsZero() {
		return fmt.Errorf("%s: %w", typ, ErrEmptySignature)
	}
	entry.signature = sig
	entry.hasSignature = true
	m.logger.Debug("system signature set",
		zap.Stringer("system", typ),
		zap.Stringer("signature", sig),
	)
	if entry.query != nil {
		m.resync(entry)
	}
	return nil
}

// resync recomputes the members of a query system after its signature changed.
func (m *SystemManager) resync(entry *systemEntry) {
	members := &entry.query.Entities
	if m.source == nil {
		if members.Len() > 0 {
			m.logger.Warn("signature changed on a populated system, members not re-evaluated",
				zap.Stringer("system", entry.typ),
				zap.Int("members", members.Len()),
			)
		}
		return
	}
	members.Clear()
	for _, e := range m.source.Matching(entry.signature) {
		members.Add(e)
	}
}

// SignatureOf returns the requirement of T and whether one was set.
func SignatureOf[T any](m *SystemManager) (Signature, bool) {
	entry, ok := m.systems[reflect.TypeFor[T]()]
	if !ok || !entry.hasSignature {
		return Signature{}, false
	}
	return entry.signature, true
}

// Get returns the registered instance of T, or nil.
func Get[T any, PT interface {
	*T
	System
}](m *SystemManager) PT {
	entry, ok := m.systems[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return entry.system.(PT)
}

func (m *SystemManager) registered(typ reflect.Type) bool {
	if _, ok := m.systems[typ]; ok {
		m.logger.Warn("system already registered", zap.Stringer("system", typ))
		return true
	}
	return false
}

func (m *SystemManager) add(entry *systemEntry) {
	m.systems[entry.typ] = entry
	m.order = append(m.order, entry)
	m.logger.Debug("system registered", zap.Stringer("system", entry.typ))
}

// EntitySignatureChanged updates every query system after e went from
// oldSig to newSig. A system whose signature was never set matches nothing.
func (m *SystemManager) EntitySignatureChanged(e Entity, oldSig, newSig Signature) {
	for _, entry := range m.order {
		q := entry.query
		if q == nil {
			continue
		}
		if !entry.hasSignature {
			m.warnUnset(entry)
			q.Entities.Remove(e)
			continue
		}
		matchesOld := oldSig.Contains(entry.signature)
		matchesNew := newSig.Contains(entry.signature)
		switch {
		case matchesNew && !matchesOld:
			q.Entities.Add(e)
		case matchesOld && !matchesNew:
			q.Entities.Remove(e)
		}
	}
}

// EntityDestroyed removes e from every query system, whatever it matched.
func (m *SystemManager) EntityDestroyed(e Entity, _ Signature) {
	for _, entry := range m.order {
		if entry.query != nil {
			entry.query.Entities.Remove(e)
		}
	}
}

// Update runs every registered Updater in registration order.
func (m *SystemManager) Update(dt float32) {
	for _, entry := range m.order {
		if u, ok := entry.system.(Updater); ok {
			u.Update(dt)
		}
	}
}

// Systems returns the registered systems in registration order.
func (m *SystemManager) Systems() []System {
	out := make([]System, len(m.order))
	for i, entry := range m.order {
		out[i] = entry.system
	}
	return out
}

// Len returns the number of registered systems.
func (m *SystemManager) Len() int {
	return len(m.order)
}

func (m *SystemManager) groupMembers(entry *systemEntry) []Entity {
	if !entry.hasSignature {
		m.warnUnset(entry)
		return nil
	}
	if m.source == nil {
		return nil
	}
	return m.source.Matching(entry.signature)
}

func (m *SystemManager) warnUnset(entry *systemEntry) {
	if entry.warnedUnset {
		return
	}
	entry.warnedUnset = true
	m.logger.Warn("system has no signature and matches no entities",
		zap.Stringer("system", entry.typ))
}
