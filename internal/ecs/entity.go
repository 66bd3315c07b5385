package ecs

import (
	"maps"
	"slices"
)

// Entity is a dense integer handle. It carries identity only.
type Entity uint32

// MaxEntities bounds the number of live entities in a World.
const MaxEntities = 1 << 20

// EntityPool hands out dense entity ids and recycles destroyed ones.
type EntityPool struct {
	alive    []bool
	freeList []Entity
	live     int
}

// NewEntityPool returns an empty pool.
func NewEntityPool() *EntityPool {
	return &EntityPool{
		alive:    make([]bool, 0, 1024),
		freeList: make([]Entity, 0, 256),
	}
}

// Create returns an unused entity id, reusing destroyed ids first.
func (p *EntityPool) Create() (Entity, error) {
	if n := len(p.freeList); n > 0 {
		e := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.alive[e] = true
		p.live++
		return e, nil
	}
	if len(p.alive) >= MaxEntities {
		return 0, ErrTooManyEntities
	}
	e := Entity(len(p.alive))
	p.alive = append(p.alive, true)
	p.live++
	return e, nil
}

// Alive reports whether e was created and not destroyed since.
func (p *EntityPool) Alive(e Entity) bool {
	return int(e) < len(p.alive) && p.alive[e]
}

// Destroy releases e. Destroying a dead entity is a no-op.
func (p *EntityPool) Destroy(e Entity) {
	if !p.Alive(e) {
		return
	}
	p.alive[e] = false
	p.freeList = append(p.freeList, e)
	p.live--
}

// Len returns the number of live entities.
func (p *EntityPool) Len() int {
	return p.live
}

// EntitySet is the membership set a query system keeps.
type EntitySet struct {
	m map[Entity]struct{}
}

// Add inserts e. The zero EntitySet is ready to use.
func (s *EntitySet) Add(e Entity) {
	if s.m == nil {
		s.m = make(map[Entity]struct{})
	}
	s.m[e] = struct{}{}
}

// Remove deletes e if present.
func (s *EntitySet) Remove(e Entity) {
	delete(s.m, e)
}

// Contains reports whether e is a member.
func (s *EntitySet) Contains(e Entity) bool {
	_, ok := s.m[e]
	return ok
}

// Len returns the number of members.
func (s *EntitySet) Len() int {
	return len(s.m)
}

// Slice returns the members in ascending order.
func (s *EntitySet) Slice() []Entity {
	return slices.Sorted(maps.Keys(s.m))
}

// Each calls fn for every member in ascending order. fn may remove the
// entity it is given.
func (s *EntitySet) Each(fn func(Entity)) {
	for _, e := range s.Slice() {
		fn(e)
	}
}

// Clear removes every member.
func (s *EntitySet) Clear() {
	clear(s.m)
}
