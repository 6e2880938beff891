package silo

import "github.com/rotisserie/eris"

// Build constructs every component of descriptor from inputs and stages them in the pending
// buffer. The entity becomes visible on the next Flush. Engines are not notified here.
func (sto *Store) Build(egid EGID, descriptor *EntityDescriptor, inputs ...any) error {
	if sto.disposed {
		return DisposedStoreError{}
	}
	builders := descriptor.builders
	values := make([]any, len(builders))
	keys := make([]uint32, len(builders))
	buffer := sto.pending.active()
	for i, b := range builders {
		value, err := b.Construct(inputs)
		if err != nil {
			return eris.Wrapf(err, "failed to construct %s for %v", b.Name(), egid)
		}
		values[i] = value
		if keys[i], err = sto.typeKey(b.Component()); err != nil {
			return eris.Wrap(err, "failed to build entity")
		}
		if c, err := buffer.collectionFor(egid.Group, keys[i], b.Name()); err == nil && c.Has(egid.ID) {
			return eris.Wrap(EntityExistsError{Entity: egid, Component: b.Name()}, "failed to build entity")
		}
	}

	for i, b := range builders {
		c := buffer.getOrCreateCollectionFor(egid.Group, keys[i], func() Collection {
			return sto.pending.recycle(egid.Group, keys[i], func() Collection {
				return sto.adopt(b.NewCollection())
			})
		})
		if err := c.Insert(egid.ID, values[i]); err != nil {
			return eris.Wrapf(locate(err, egid.Group, egid.Group), "failed to stage %s for %v", b.Name(), egid)
		}
	}
	sto.pending.record(egid)
	return nil
}

// BuildKind is Build with the descriptor resolved from the injected registry.
func (sto *Store) BuildKind(egid EGID, kind string, inputs ...any) error {
	descriptor, err := sto.descriptors.Descriptor(kind)
	if err != nil {
		return eris.Wrap(err, "failed to build entity")
	}
	return sto.Build(egid, descriptor, inputs...)
}

// Preallocate reserves room for n components in both the merged and the pending collection
// of the builder's component in group. It never creates entities.
func (sto *Store) Preallocate(group GroupID, b ComponentBuilder, n int) error {
	if sto.disposed {
		return DisposedStoreError{}
	}
	key, err := sto.typeKey(b.Component())
	if err != nil {
		return eris.Wrap(err, "failed to preallocate")
	}
	c := sto.db.getOrCreateCollectionFor(group, key, func() Collection {
		return sto.adopt(b.Preallocate(nil, n))
	})
	b.Preallocate(c, n)

	c = sto.pending.active().getOrCreateCollectionFor(group, key, func() Collection {
		return sto.pending.recycle(group, key, func() Collection {
			return sto.adopt(b.Preallocate(nil, n))
		})
	})
	b.Preallocate(c, n)
	return nil
}

// PreallocateDescriptor preallocates every component of descriptor.
func (sto *Store) PreallocateDescriptor(group GroupID, descriptor *EntityDescriptor, n int) error {
	for _, b := range descriptor.builders {
		if err := sto.Preallocate(group, b, n); err != nil {
			return err
		}
	}
	return nil
}

// Remove notifies engines and deletes every component of the entity, in builder order.
// Every lookup is checked before anything changes.
func (sto *Store) Remove(egid EGID) error {
	if err := sto.checkMutable(); err != nil {
		return err
	}
	if err := sto.remove(egid); err != nil {
		return err
	}
	return sto.unlocked()
}

func (sto *Store) remove(egid EGID) error {
	infoKey, err := sto.typeKey(entityInfoViewComponent)
	if err != nil {
		return err
	}
	plan, err := sto.resolveEntity(&sto.db, egid, infoKey)
	if err != nil {
		return eris.Wrapf(err, "failed to remove entity %v", egid)
	}
	return sto.dispatch(func() error {
		for i, key := range plan.keys {
			c := plan.collections[i]
			if err := c.NotifyRemove(egid, sto.engines.enginesFor(key)); err != nil {
				return eris.Wrapf(err, "failed to notify removal of %v", egid)
			}
			emptied, err := c.Remove(egid.ID)
			if err != nil {
				return eris.Wrapf(locate(err, egid.Group, egid.Group), "failed to remove entity %v", egid)
			}
			if emptied {
				sto.db.dropCollection(egid.Group, key)
			}
		}
		return nil
	})
}

// RemoveGroup notifies engines of every component in group, then drops the group at once.
func (sto *Store) RemoveGroup(group GroupID) error {
	if err := sto.checkMutable(); err != nil {
		return err
	}
	if err := sto.removeGroup(group); err != nil {
		return err
	}
	return sto.unlocked()
}

func (sto *Store) removeGroup(group GroupID) error {
	g, ok := sto.db.group(group)
	if !ok {
		return eris.Wrap(GroupNotFoundError{Group: group}, "failed to remove group")
	}
	count := 0
	_ = sto.dispatch(func() error {
		for _, key := range g.keys() {
			c := g.collections[key]
			c.NotifyRemoveAll(group, sto.engines.enginesFor(key))
			count += c.Len()
		}
		return nil
	})
	sto.db.dropGroup(group)
	sto.logger.Debug().Uint32("group", uint32(group)).Int("count", count).Msg("removed group")
	return nil
}

// SwapGroup moves every component of entity id from one group to another. Engines are not
// notified: the entity keeps its identity and only its group changes.
func (sto *Store) SwapGroup(id uint32, from, to GroupID) error {
	if from == to {
		return eris.Wrap(SameGroupSwapError{ID: id, Group: from}, "failed to swap group")
	}
	if err := sto.checkMutable(); err != nil {
		return err
	}
	return sto.swapGroup(id, from, to)
}

func (sto *Store) swapGroup(id uint32, from, to GroupID) error {
	egid := EGID{ID: id, Group: from}
	infoKey, err := sto.typeKey(entityInfoViewComponent)
	if err != nil {
		return err
	}
	plan, err := sto.resolveEntity(&sto.db, egid, infoKey)
	if err != nil {
		return eris.Wrapf(err, "failed to swap entity %v", egid)
	}
	if dst, ok := sto.db.group(to); ok {
		for i, key := range plan.keys {
			if c, ok := dst.collections[key]; ok && c.Has(id) {
				return eris.Wrap(EntityExistsError{Entity: EGID{ID: id, Group: to}, Component: plan.builders[i].Name()}, "failed to swap group")
			}
		}
	}

	for i, b := range plan.builders {
		src := plan.collections[i]
		dst := sto.db.getOrCreateCollectionFor(to, plan.keys[i], func() Collection {
			return sto.adopt(src.CreateEmpty())
		})
		if err := b.MoveEntry(id, src, dst); err != nil {
			return eris.Wrapf(locate(err, from, to), "failed to move %s of %v", b.Name(), egid)
		}
		emptied, err := src.Remove(id)
		if err != nil {
			return eris.Wrapf(locate(err, from, to), "failed to move %s of %v", b.Name(), egid)
		}
		if emptied {
			sto.db.dropCollection(from, plan.keys[i])
		}
	}
	sto.logger.Debug().Uint32("entity", id).Uint32("from", uint32(from)).Uint32("to", uint32(to)).Msg("swapped group")
	return nil
}

// Dispose notifies engines of the removal of every merged entity. The index itself is left
// alone and every later mutation fails with DisposedStoreError. Operations engines queue
// while being notified are dropped.
func (sto *Store) Dispose() error {
	if sto.disposed {
		return DisposedStoreError{}
	}
	_ = sto.dispatch(func() error {
		for group := range sto.db.ids() {
			g := sto.db.groups[group]
			for _, key := range g.keys() {
				g.collections[key].NotifyRemoveAll(group, sto.engines.enginesFor(key))
			}
		}
		return nil
	})
	sto.disposed = true
	sto.opQueue.reset()
	sto.logger.Debug().Int("groups", len(sto.db.groups)).Msg("disposed store")
	return nil
}

func (sto *Store) Disposed() bool {
	return sto.disposed
}
