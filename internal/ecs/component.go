package ecs

// removable is implemented by every component store so a World can drop an
// entity's data from all stores on destroy.
type removable interface {
	Remove(e Entity)
}

// ComponentStore is a typed map store for one component type.
type ComponentStore[T any] struct {
	data map[Entity]*T
}

// NewComponentStore returns an empty store.
func NewComponentStore[T any]() *ComponentStore[T] {
	return &ComponentStore[T]{
		data: make(map[Entity]*T, 256),
	}
}

// Set stores c for e, replacing any previous value.
func (s *ComponentStore[T]) Set(e Entity, c *T) {
	s.data[e] = c
}

// Get returns the component of e.
func (s *ComponentStore[T]) Get(e Entity) (*T, bool) {
	c, ok := s.data[e]
	return c, ok
}

// Remove drops the component of e.
func (s *ComponentStore[T]) Remove(e Entity) {
	delete(s.data, e)
}

// Has reports whether e has a component in this store.
func (s *ComponentStore[T]) Has(e Entity) bool {
	_, ok := s.data[e]
	return ok
}

// Len returns the number of stored components.
func (s *ComponentStore[T]) Len() int {
	return len(s.data)
}
