package ecs

type systemKind uint8

const (
	queryKind systemKind = iota + 1
	groupKind
)

// System is implemented by every type that embeds QuerySystem or GroupSystem.
type System interface {
	kind() systemKind
}

// Updater is implemented by systems that run once per frame.
type Updater interface {
	Update(dt float32)
}

// QuerySystem is the base of systems whose membership is a pure function of
// entity signatures. Embed it by value:
//
//	type Movement struct {
//		ecs.QuerySystem
//	}
//
// Entities is maintained by the SystemManager and must be treated as read-only.
type QuerySystem struct {
	Entities EntitySet
}

func (*QuerySystem) kind() systemKind { return queryKind }

func (s *QuerySystem) queryBase() *QuerySystem { return s }

// QueryMember is satisfied by pointers to types embedding QuerySystem.
type QueryMember interface {
	System
	queryBase() *QuerySystem
}

// GroupSystem is the base of systems that read their entities from the
// owning World on demand instead of keeping a membership set.
type GroupSystem struct {
	members func() []Entity
}

func (*GroupSystem) kind() systemKind { return groupKind }

func (s *GroupSystem) groupBase() *GroupSystem { return s }

// Entities returns the entities of the world currently matching the system
// signature, in ascending order. It is empty until a signature is set and
// the manager is attached to a World.
func (s *GroupSystem) Entities() []Entity {
	if s.members == nil {
		return nil
	}
	return s.members()
}

// GroupMember is satisfied by pointers to types embedding GroupSystem.
type GroupMember interface {
	System
	groupBase() *GroupSystem
}
