package silo

import "iter"

// Collection is a homogeneous, type-erased container of one component type keyed by local entity id.
// The store only ever reaches component values through this interface.
type Collection interface {
	Name() string
	Len() int
	Cap() int
	Has(id uint32) bool
	Get(id uint32) (any, bool)
	IDs() iter.Seq[uint32]

	Insert(id uint32, value any) error
	// Remove reports whether the collection is empty afterwards.
	Remove(id uint32) (bool, error)
	// MoveEntry copies the value stored for id into another collection of the same type.
	// The source entry is left in place.
	MoveEntry(id uint32, into Collection) error
	CreateEmpty() Collection
	// Reserve guarantees room for n entries without reallocation.
	Reserve(n int)

	NotifyAdd(egid EGID, engines []Engine) error
	NotifyRemove(egid EGID, engines []Engine) error
	NotifyRemoveAll(group GroupID, engines []Engine)

	idAt(slot int) uint32
	reset()
	setEvents(CollectionEvents)
}

var _ Collection = &collection[struct{}]{}

// collection keeps values densely packed; index maps a local id to its dense slot.
type collection[T any] struct {
	name   string
	values []T
	ids    []uint32
	index  map[uint32]int
	events CollectionEvents
}

func newCollection[T any](name string, capacity int) *collection[T] {
	return &collection[T]{
		name:   name,
		values: make([]T, 0, capacity),
		ids:    make([]uint32, 0, capacity),
		index:  make(map[uint32]int, capacity),
		events: Config.collectionEvents,
	}
}

func (c *collection[T]) Name() string {
	return c.name
}

func (c *collection[T]) Len() int {
	return len(c.values)
}

func (c *collection[T]) Cap() int {
	return cap(c.values)
}

func (c *collection[T]) Has(id uint32) bool {
	_, ok := c.index[id]
	return ok
}

func (c *collection[T]) Get(id uint32) (any, bool) {
	value, ok := c.get(id)
	if !ok {
		return nil, false
	}
	return value, true
}

func (c *collection[T]) get(id uint32) (*T, bool) {
	slot, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return &c.values[slot], true
}

func (c *collection[T]) IDs() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		for _, id := range c.ids {
			if !yield(id) {
				return
			}
		}
	}
}

func (c *collection[T]) Insert(id uint32, value any) error {
	switch v := value.(type) {
	case T:
		return c.insert(id, v)
	case *T:
		if v == nil {
			return ComponentTypeMismatchError{Component: c.name, Value: value}
		}
		return c.insert(id, *v)
	default:
		return ComponentTypeMismatchError{Component: c.name, Value: value}
	}
}

func (c *collection[T]) insert(id uint32, value T) error {
	if _, exists := c.index[id]; exists {
		return EntityExistsError{Entity: EGID{ID: id}, Component: c.name}
	}
	oldCap := cap(c.values)
	c.values = append(c.values, value)
	c.ids = append(c.ids, id)
	c.index[id] = len(c.values) - 1
	if newCap := cap(c.values); newCap != oldCap && c.events.OnGrow != nil {
		c.events.OnGrow(c.name, oldCap, newCap)
	}
	return nil
}

func (c *collection[T]) Remove(id uint32) (bool, error) {
	slot, ok := c.index[id]
	if !ok {
		return len(c.values) == 0, EntityNotFoundError{Entity: EGID{ID: id}, Component: c.name}
	}
	last := len(c.values) - 1
	if slot != last {
		c.values[slot] = c.values[last]
		c.ids[slot] = c.ids[last]
		c.index[c.ids[slot]] = slot
	}
	var zero T
	c.values[last] = zero
	c.values = c.values[:last]
	c.ids = c.ids[:last]
	delete(c.index, id)
	return len(c.values) == 0, nil
}

func (c *collection[T]) MoveEntry(id uint32, into Collection) error {
	dst, ok := into.(*collection[T])
	if !ok {
		return ComponentTypeMismatchError{Component: into.Name(), Value: c.values}
	}
	value, ok := c.get(id)
	if !ok {
		return EntityNotFoundError{Entity: EGID{ID: id}, Component: c.name}
	}
	return dst.insert(id, *value)
}

func (c *collection[T]) CreateEmpty() Collection {
	created := newCollection[T](c.name, 0)
	created.events = c.events
	return created
}

func (c *collection[T]) Reserve(n int) {
	if cap(c.values) >= n {
		return
	}
	values := make([]T, len(c.values), n)
	copy(values, c.values)
	ids := make([]uint32, len(c.ids), n)
	copy(ids, c.ids)
	index := make(map[uint32]int, n)
	for id, slot := range c.index {
		index[id] = slot
	}
	c.values, c.ids, c.index = values, ids, index
}

func (c *collection[T]) NotifyAdd(egid EGID, engines []Engine) error {
	value, ok := c.get(egid.ID)
	if !ok {
		return EntityNotFoundError{Entity: egid, Component: c.name}
	}
	for _, engine := range engines {
		engine.Add(egid, value)
	}
	return nil
}

func (c *collection[T]) NotifyRemove(egid EGID, engines []Engine) error {
	value, ok := c.get(egid.ID)
	if !ok {
		return EntityNotFoundError{Entity: egid, Component: c.name}
	}
	for _, engine := range engines {
		engine.Remove(egid, value)
	}
	return nil
}

func (c *collection[T]) NotifyRemoveAll(group GroupID, engines []Engine) {
	if len(engines) == 0 {
		return
	}
	for slot, id := range c.ids {
		egid := EGID{ID: id, Group: group}
		for _, engine := range engines {
			engine.Remove(egid, &c.values[slot])
		}
	}
}

func (c *collection[T]) idAt(slot int) uint32 {
	return c.ids[slot]
}

// reset empties the collection but keeps its capacity.
func (c *collection[T]) reset() {
	clear(c.values)
	c.values = c.values[:0]
	c.ids = c.ids[:0]
	clear(c.index)
}

func (c *collection[T]) setEvents(ce CollectionEvents) {
	c.events = ce
}
