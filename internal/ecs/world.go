package ecs

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// World owns entities, their components and signatures, and drives a
// SystemManager whenever an entity's composition changes.
type World struct {
	pool       *EntityPool
	signatures []Signature
	types      map[reflect.Type]ComponentType
	stores     []removable
	systems    *SystemManager
}

// NewWorld creates an empty world. A nil logger discards output.
func NewWorld(logger *zap.Logger) *World {
	w := &World{
		pool:  NewEntityPool(),
		types: make(map[reflect.Type]ComponentType),
	}
	w.systems = NewSystemManager(logger)
	w.systems.source = w
	return w
}

// Systems returns the world's system manager.
func (w *World) Systems() *SystemManager { return w.systems }

// CreateEntity allocates an entity with an empty signature.
func (w *World) CreateEntity() (Entity, error) {
	e, err := w.pool.Create()
	if err != nil {
		return 0, err
	}
	if int(e) >= len(w.signatures) {
		w.signatures = append(w.signatures, Signature{})
	}
	w.signatures[e] = Signature{}
	return e, nil
}

// Alive reports whether e is a live entity of w.
func (w *World) Alive(e Entity) bool {
	return w.pool.Alive(e)
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.pool.Len()
}

// DestroyEntity drops every component of e and removes it from all systems.
func (w *World) DestroyEntity(e Entity) error {
	if !w.pool.Alive(e) {
		return fmt.Errorf("entity %d: %w", e, ErrEntityNotAlive)
	}
	sig := w.signatures[e]
	for _, s := range w.stores {
		s.Remove(e)
	}
	w.systems.EntityDestroyed(e, sig)
	w.signatures[e] = Signature{}
	w.pool.Destroy(e)
	return nil
}

// Signature returns the current composition of e.
func (w *World) Signature(e Entity) Signature {
	if !w.pool.Alive(e) {
		return Signature{}
	}
	return w.signatures[e]
}

// Matching returns the live entities whose signature contains required, in
// ascending order.
func (w *World) Matching(required Signature) []Entity {
	var out []Entity
	for i, sig := range w.signatures {
		e := Entity(i)
		if w.pool.Alive(e) && sig.Contains(required) {
			out = append(out, e)
		}
	}
	return out
}

func (w *World) setSignature(e Entity, sig Signature) {
	old := w.signatures[e]
	if old == sig {
		return
	}
	w.signatures[e] = sig
	w.systems.EntitySignatureChanged(e, old, sig)
}

// RegisterComponent assigns T the next free signature bit. Registering the
// same type again returns its existing bit.
func RegisterComponent[T any](w *World) (ComponentType, error) {
	typ := reflect.TypeFor[T]()
	if ct, ok := w.types[typ]; ok {
		return ct, nil
	}
	if len(w.stores) >= MaxComponents {
		return 0, fmt.Errorf("%s: %w", typ, ErrTooManyComponents)
	}
	ct := ComponentType(len(w.stores))
	w.types[typ] = ct
	w.stores = append(w.stores, NewComponentStore[T]())
	return ct, nil
}

// ComponentTypeOf returns the bit assigned to T.
func ComponentTypeOf[T any](w *World) (ComponentType, bool) {
	ct, ok := w.types[reflect.TypeFor[T]()]
	return ct, ok
}

func storeOf[T any](w *World) (*ComponentStore[T], ComponentType, bool) {
	ct, ok := ComponentTypeOf[T](w)
	if !ok {
		return nil, 0, false
	}
	return w.stores[ct].(*ComponentStore[T]), ct, true
}

// AddComponent attaches c to e, registering T on first use, and updates
// system membership.
func AddComponent[T any](w *World, e Entity, c T) error {
	if !w.pool.Alive(e) {
		return fmt.Errorf("entity %d: %w", e, ErrEntityNotAlive)
	}
	if _, err := RegisterComponent[T](w); err != nil {
		return err
	}
	store, ct, _ := storeOf[T](w)
	store.Set(e, &c)
	w.setSignature(e, w.signatures[e].With(ct))
	return nil
}

// RemoveComponent detaches T from e and updates system membership.
func RemoveComponent[T any](w *World, e Entity) error {
	if !w.pool.Alive(e) {
		return fmt.Errorf("entity %d: %w", e, ErrEntityNotAlive)
	}
	store, ct, ok := storeOf[T](w)
	if !ok {
		return fmt.Errorf("%s: %w", reflect.TypeFor[T](), ErrComponentNotRegistered)
	}
	store.Remove(e)
	w.setSignature(e, w.signatures[e].Without(ct))
	return nil
}

// GetComponent returns e's T component.
func GetComponent[T any](w *World, e Entity) (*T, bool) {
	store, _, ok := storeOf[T](w)
	if !ok {
		return nil, false
	}
	return store.Get(e)
}

// HasComponent reports whether e has a T component.
func HasComponent[T any](w *World, e Entity) bool {
	store, _, ok := storeOf[T](w)
	return ok && store.Has(e)
}
