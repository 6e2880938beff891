package silo

import (
	"iter"
)

// Cursor walks the merged entities of one component type in one group. The store stays locked
// while a cursor is active, so removals and swaps issued meanwhile are queued.
type Cursor struct {
	store     *Store
	group     GroupID
	component Component

	collection  Collection
	index       int
	remaining   int
	initialized bool
	err         error
}

func newCursor(sto *Store, group GroupID, component Component) *Cursor {
	return &Cursor{
		store:     sto,
		group:     group,
		component: component,
	}
}

func (c *Cursor) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	if c.index < c.remaining {
		c.index++
		return true
	}
	c.Reset()
	return false
}

// Entities yields every entity in the collection and releases the cursor afterwards.
func (c *Cursor) Entities() iter.Seq[EGID] {
	return func(yield func(EGID) bool) {
		for c.Next() {
			if !yield(c.CurrentEntity()) {
				c.Reset()
				return
			}
		}
	}
}

func (c *Cursor) initialize() {
	c.store.cursors++
	c.initialized = true
	coll, err := c.store.Collection(c.group, c.component)
	if err != nil {
		c.collection = nil
		c.remaining = 0
		return
	}
	c.collection = coll
	c.remaining = coll.Len()
}

// Reset releases the cursor's lock. Operations queued while the store was locked run when
// the last lock goes away; their error is reported by Err.
func (c *Cursor) Reset() {
	if !c.initialized {
		return
	}
	c.index = 0
	c.remaining = 0
	c.collection = nil
	c.initialized = false
	c.store.cursors--
	if err := c.store.unlocked(); err != nil {
		c.err = err
		c.store.logger.Error().Err(err).Msg("queued operations failed")
	}
}

func (c *Cursor) Err() error {
	return c.err
}

func (c *Cursor) CurrentEntity() EGID {
	return EGID{ID: c.collection.idAt(c.index - 1), Group: c.group}
}

func (c *Cursor) RemainingInCollection() int {
	return c.remaining - c.index
}

// TotalMatched returns the number of entities the cursor will visit.
func (c *Cursor) TotalMatched() int {
	return c.store.Count(c.group, c.component)
}
