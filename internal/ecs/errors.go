package ecs

import "errors"

// ECS errors.
var (
	// ErrSystemNotRegistered is returned when a signature is set for an unknown system type.
	ErrSystemNotRegistered = errors.New("system not registered")

	// ErrEmptySignature is returned when a system requirement has no bits set.
	ErrEmptySignature = errors.New("system signature is empty")

	// ErrTooManyEntities is returned when the entity pool is exhausted.
	ErrTooManyEntities = errors.New("too many entities")

	// ErrTooManyComponents is returned when more than MaxComponents types are registered.
	ErrTooManyComponents = errors.New("too many component types")

	// ErrComponentNotRegistered is returned for a component type the world has not seen.
	ErrComponentNotRegistered = errors.New("component type not registered")

	// ErrEntityNotAlive is returned when operating on a destroyed entity.
	ErrEntityNotAlive = errors.New("entity is not alive")
)
