package silo

import (
	"iter"

	"github.com/TheBitDrifter/mask"
	"github.com/TheBitDrifter/table"
	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// Store owns the grouped entity index, the pending addition buffers and the engine registry.
// It is not safe for concurrent use; one driver mutates it per cycle.
type Store struct {
	schema      table.Schema
	names       map[uint32]string
	db          groupedStore
	pending     pendingBuffer
	engines     engineRegistry
	descriptors *DescriptorRegistry
	events      CollectionEvents
	logger      zerolog.Logger

	locks       mask.Mask
	cursors     int
	dispatching int
	opQueue     opQueue
	disposed    bool
}

func newStore(schema table.Schema, opts ...StoreOption) *Store {
	sto := &Store{
		schema:  schema,
		names:   make(map[uint32]string),
		db:      newGroupedStore(),
		pending: newPendingBuffer(),
		engines: newEngineRegistry(),
		events:  Config.collectionEvents,
		logger:  Config.logger,
		opQueue: newOpQueue(),
	}
	for _, opt := range opts {
		opt(sto)
	}
	if sto.descriptors == nil {
		sto.descriptors = newDescriptorRegistry(0)
	}
	return sto
}

// maxComponentTypes is the width of mask.Mask; type keys beyond it can't be marked in a group mask.
const maxComponentTypes = 256

// typeKey returns the stable key the schema assigned to the component.
func (sto *Store) typeKey(c Component) (uint32, error) {
	sto.schema.Register(c)
	key := sto.schema.RowIndexFor(c)
	if key >= maxComponentTypes {
		return 0, TooManyComponentTypesError{Component: componentName(c), Limit: maxComponentTypes}
	}
	if _, ok := sto.names[key]; !ok {
		sto.names[key] = componentName(c)
	}
	return key, nil
}

func (sto *Store) adopt(c Collection) Collection {
	c.setEvents(sto.events)
	return c
}

// RegisterEngine subscribes engine to add and remove notifications of the given components.
func (sto *Store) RegisterEngine(engine Engine, components ...Component) error {
	keys := make([]uint32, len(components))
	for i, c := range components {
		key, err := sto.typeKey(c)
		if err != nil {
			return eris.Wrap(err, "failed to register engine")
		}
		keys[i] = key
	}
	for _, key := range keys {
		sto.engines.register(engine, key)
	}
	return nil
}

// Descriptors returns the registry BuildKind resolves from.
func (sto *Store) Descriptors() *DescriptorRegistry {
	return sto.descriptors
}

// Collection returns the merged collection of component in group.
func (sto *Store) Collection(group GroupID, c Component) (Collection, error) {
	key, err := sto.typeKey(c)
	if err != nil {
		return nil, err
	}
	return sto.db.collectionFor(group, key, componentName(c))
}

// Pending returns the collection of component in group that Build is currently writing to.
func (sto *Store) Pending(group GroupID, c Component) (Collection, error) {
	key, err := sto.typeKey(c)
	if err != nil {
		return nil, err
	}
	return sto.pending.active().collectionFor(group, key, componentName(c))
}

// Count returns the number of merged entities with component in group.
func (sto *Store) Count(group GroupID, c Component) int {
	coll, err := sto.Collection(group, c)
	if err != nil {
		return 0
	}
	return coll.Len()
}

// PendingCount returns the number of entities built since the last flush.
func (sto *Store) PendingCount() int {
	return sto.pending.count()
}

func (sto *Store) HasGroup(group GroupID) bool {
	_, ok := sto.db.group(group)
	return ok
}

// GroupHas reports whether group holds a collection for every given component.
func (sto *Store) GroupHas(group GroupID, components ...Component) bool {
	g, ok := sto.db.group(group)
	if !ok {
		return false
	}
	var want mask.Mask
	for _, c := range components {
		key, err := sto.typeKey(c)
		if err != nil {
			return false
		}
		want.Mark(key)
	}
	return g.containsAll(want)
}

// Groups yields the ids of every group present in the store, in ascending order.
func (sto *Store) Groups() iter.Seq[GroupID] {
	return sto.db.ids()
}

func (sto *Store) GroupIDs() []GroupID {
	return iter_util.Collect(sto.db.ids())
}

// Flush merges every entity built since the previous flush into the store and notifies
// engines of the additions in build order. Nothing is merged if any entity collides with a
// live one. Engines are notified with the store locked, so removals and swaps they request
// run once every notification has been delivered.
func (sto *Store) Flush() error {
	if err := sto.checkMutable(); err != nil {
		return err
	}
	infoKey, err := sto.typeKey(entityInfoViewComponent)
	if err != nil {
		return err
	}
	folded, built := sto.pending.swap()

	plans := make([]entityPlan, len(built))
	for i, egid := range built {
		plan, err := sto.resolveEntity(folded, egid, infoKey)
		if err != nil {
			sto.pending.unswap()
			return eris.Wrapf(err, "failed to flush entity %v", egid)
		}
		for j, key := range plan.keys {
			if dst, err := sto.db.collectionFor(egid.Group, key, plan.builders[j].Name()); err == nil && dst.Has(egid.ID) {
				sto.pending.unswap()
				return eris.Wrap(EntityExistsError{Entity: egid, Component: plan.builders[j].Name()}, "failed to flush")
			}
		}
		plans[i] = plan
	}

	merged := make([][]Collection, len(built))
	for i, egid := range built {
		plan := plans[i]
		merged[i] = make([]Collection, len(plan.builders))
		for j, b := range plan.builders {
			src := plan.collections[j]
			dst := sto.db.getOrCreateCollectionFor(egid.Group, plan.keys[j], func() Collection {
				return sto.adopt(src.CreateEmpty())
			})
			if err := b.MoveEntry(egid.ID, src, dst); err != nil {
				return eris.Wrapf(locate(err, egid.Group, egid.Group), "failed to merge entity %v", egid)
			}
			merged[i][j] = dst
		}
	}
	// Everything is merged; the folded buffer must not survive a failed notification
	sto.pending.clearInactive()

	err = sto.dispatch(func() error {
		for i, egid := range built {
			for j, key := range plans[i].keys {
				if err := merged[i][j].NotifyAdd(egid, sto.engines.enginesFor(key)); err != nil {
					return eris.Wrapf(err, "failed to notify addition of %v", egid)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	sto.logger.Debug().Int("count", len(built)).Msg("flushed pending entities")
	return sto.unlocked()
}

// dispatch runs notify with the store locked. Engines calling back into the store through
// the Enqueue methods are queued instead of mutating the store mid operation.
func (sto *Store) dispatch(notify func() error) error {
	sto.dispatching++
	defer func() { sto.dispatching-- }()
	return notify()
}

// locate fills in the groups of entity errors raised by collections, which only know local ids.
// Missing entries belong to the source group, colliding ones to the destination.
func locate(err error, src, dst GroupID) error {
	switch e := err.(type) {
	case EntityNotFoundError:
		e.Entity.Group = src
		return e
	case EntityExistsError:
		e.Entity.Group = dst
		return e
	}
	return err
}

func (sto *Store) checkMutable() error {
	if sto.disposed {
		return DisposedStoreError{}
	}
	if sto.Locked() {
		return LockedStoreError{}
	}
	return nil
}

// entityPlan is every lookup an operation needs, resolved before anything is mutated.
type entityPlan struct {
	builders    []ComponentBuilder
	keys        []uint32
	collections []Collection
}

func (sto *Store) resolveEntity(gs *groupedStore, egid EGID, infoKey uint32) (entityPlan, error) {
	infoColl, err := gs.collectionFor(egid.Group, infoKey, entityInfoViewComponent.Name())
	if err != nil {
		return entityPlan{}, err
	}
	info, err := entityInfoViewComponent.fromCollection(infoColl, egid)
	if err != nil {
		return entityPlan{}, err
	}
	builders := info.Builders
	plan := entityPlan{
		builders:    builders,
		keys:        make([]uint32, len(builders)),
		collections: make([]Collection, len(builders)),
	}
	for i, b := range builders {
		key, err := sto.typeKey(b.Component())
		if err != nil {
			return entityPlan{}, err
		}
		coll, err := gs.collectionFor(egid.Group, key, b.Name())
		if err != nil {
			return entityPlan{}, err
		}
		if !coll.Has(egid.ID) {
			return entityPlan{}, EntityNotFoundError{Entity: egid, Component: b.Name()}
		}
		plan.keys[i] = key
		plan.collections[i] = coll
	}
	return plan, nil
}
