package silo

import "github.com/TheBitDrifter/table"

type factory struct{}

var Factory factory

// NewStore creates an empty store whose component type keys come from schema.
func (f factory) NewStore(schema table.Schema, opts ...StoreOption) *Store {
	return newStore(schema, opts...)
}

// NewDescriptorRegistry creates a registry holding at most capacity entity kinds, or any
// number of them when capacity is not positive.
func (f factory) NewDescriptorRegistry(capacity int) *DescriptorRegistry {
	return newDescriptorRegistry(capacity)
}

func (f factory) NewCursor(sto *Store, group GroupID, component Component) *Cursor {
	return newCursor(sto, group, component)
}

func (f factory) NewEntityFactory(sto *Store) EntityFactory {
	return entityFactory{store: sto}
}

func (f factory) NewEntityFunctions(sto *Store) EntityFunctions {
	return entityFunctions{store: sto}
}

func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return newAccessibleComponent[T]()
}

type entityFactory struct {
	store *Store
}

func (f entityFactory) BuildEntity(egid EGID, descriptor *EntityDescriptor, inputs ...any) error {
	return f.store.Build(egid, descriptor, inputs...)
}

func (f entityFactory) BuildEntityKind(egid EGID, kind string, inputs ...any) error {
	return f.store.BuildKind(egid, kind, inputs...)
}

func (f entityFactory) PreallocateEntitySpace(group GroupID, descriptor *EntityDescriptor, n int) error {
	return f.store.PreallocateDescriptor(group, descriptor, n)
}

type entityFunctions struct {
	store *Store
}

func (f entityFunctions) RemoveEntity(egid EGID) error {
	return f.store.EnqueueRemove(egid)
}

func (f entityFunctions) RemoveGroupAndEntities(group GroupID) error {
	return f.store.EnqueueRemoveGroup(group)
}

func (f entityFunctions) SwapEntityGroup(id uint32, from, to GroupID) error {
	return f.store.EnqueueSwapGroup(id, from, to)
}
