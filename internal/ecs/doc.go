// Package ecs provides signature-based system dispatch for the editor's
// entity-component-system.
//
// Each component type owns one bit of a Signature. A system declares the
// bits it requires; SystemManager keeps, for every query system, the set of
// entities whose signature contains that requirement. World is the usual
// driver: it owns entities and component stores and reports every change of
// composition to its SystemManager.
//
//	w := ecs.NewWorld(logger)
//	pos, _ := ecs.RegisterComponent[Position](w)
//	mv := ecs.RegisterQuerySystem[Movement](w.Systems())
//	_ = ecs.SetSignature[Movement](w.Systems(), ecs.NewSignature(pos))
//
// A system whose signature was never set matches no entity, and an empty
// signature is rejected by SetSignature.
//
// Nothing in this package is safe for concurrent use.
package ecs
