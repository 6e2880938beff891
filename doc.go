/*
Package silo provides grouped entity storage for Entity-Component-System (ECS) games and simulations.

Entities are made of components and live in groups. All components of one type in one group share
a single homogeneous Collection, so the store is a two level index: group, then component type.
Engines registered for a component type are told when components of that type enter or leave the store.

Core Concepts:

  - EGID: The identity of an entity, its local id plus the group it lives in.
  - Component: A data container that defines entity attributes.
  - EntityDescriptor: The ordered list of component builders that makes up one kind of entity.
  - EntityInfoView: A component attached to every entity recording how it was built.
  - Engine: An observer notified of additions and removals per component type.

Newly built entities are staged in a pending buffer and only become visible on Flush, so engines
walking the store are never disturbed by entities created during the same cycle.

Basic Usage:

	position := silo.FactoryNewComponent[Position]()
	velocity := silo.FactoryNewComponent[Velocity]()

	ship := silo.MustNewDescriptor(
		silo.NewBuilder(position, nil),
		silo.NewBuilder(velocity, nil),
	)

	store := silo.Factory.NewStore(table.Factory.NewSchema())
	store.RegisterEngine(physics, position, velocity)

	store.Build(silo.NewEGID(1, Flying), ship, Position{X: 10}, Velocity{X: 1})
	store.Flush()

	store.SwapGroup(1, Flying, Docked)
	store.Remove(silo.NewEGID(1, Docked))
*/
package silo
