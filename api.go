package silo

// EntityFactory is the building surface handed to engines and game code.
type EntityFactory interface {
	BuildEntity(egid EGID, descriptor *EntityDescriptor, inputs ...any) error
	BuildEntityKind(egid EGID, kind string, inputs ...any) error
	PreallocateEntitySpace(group GroupID, descriptor *EntityDescriptor, n int) error
}

// EntityFunctions is the removal and relocation surface handed to engines and game code.
// Calls made while the store is locked are applied once it is unlocked.
type EntityFunctions interface {
	RemoveEntity(egid EGID) error
	RemoveGroupAndEntities(group GroupID) error
	SwapEntityGroup(id uint32, from, to GroupID) error
}
