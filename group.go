package silo

import (
	"iter"
	"maps"
	"slices"

	"github.com/TheBitDrifter/mask"
)

// groupIndex holds every collection of one group, keyed by component type key.
type groupIndex struct {
	id          GroupID
	collections map[uint32]Collection
	mask        mask.Mask
}

// groupedStore is the two level index group -> component type -> collection.
// A group without collections is never present.
type groupedStore struct {
	groups map[GroupID]*groupIndex
}

func newGroupedStore() groupedStore {
	return groupedStore{groups: make(map[GroupID]*groupIndex)}
}

func (gs *groupedStore) group(id GroupID) (*groupIndex, bool) {
	g, ok := gs.groups[id]
	return g, ok
}

func (gs *groupedStore) collectionFor(id GroupID, key uint32, name string) (Collection, error) {
	g, ok := gs.groups[id]
	if !ok {
		return nil, GroupNotFoundError{Group: id}
	}
	c, ok := g.collections[key]
	if !ok {
		return nil, ComponentNotFoundError{Group: id, Component: name}
	}
	return c, nil
}

// getOrCreateCollectionFor lazily creates the group and the collection. create is only
// called when the collection is missing.
func (gs *groupedStore) getOrCreateCollectionFor(id GroupID, key uint32, create func() Collection) Collection {
	g, ok := gs.groups[id]
	if !ok {
		g = &groupIndex{id: id, collections: make(map[uint32]Collection)}
		gs.groups[id] = g
	}
	c, ok := g.collections[key]
	if !ok {
		c = create()
		g.collections[key] = c
		g.mask.Mark(key)
	}
	return c
}

func (gs *groupedStore) dropCollection(id GroupID, key uint32) {
	g, ok := gs.groups[id]
	if !ok {
		return
	}
	delete(g.collections, key)
	g.mask.Unmark(key)
	if len(g.collections) == 0 {
		delete(gs.groups, id)
	}
}

func (gs *groupedStore) dropGroup(id GroupID) {
	delete(gs.groups, id)
}

// ids yields group ids in ascending order so traversals are reproducible.
func (gs *groupedStore) ids() iter.Seq[GroupID] {
	return slices.Values(slices.Sorted(maps.Keys(gs.groups)))
}

// keys yields the group's type keys in ascending order.
func (g *groupIndex) keys() []uint32 {
	return slices.Sorted(maps.Keys(g.collections))
}

func (g *groupIndex) containsAll(m mask.Mask) bool {
	return g.mask.ContainsAll(m)
}
