package silo

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/TheBitDrifter/table"
)

// Component identifies the shape of one piece of entity data.
// Every component of the same shape in one group lives in one Collection.
type Component interface {
	table.ElementType
}

// AccessibleComponent pairs a Component with typed access into a Store.
type AccessibleComponent[T any] struct {
	Component
	name string
}

// elementTypes holds the one element type minted per Go type, so every handle of the same
// shape resolves to the same schema row and therefore to the same collection.
var elementTypes = struct {
	sync.Mutex
	byType map[reflect.Type]table.ElementType
}{byType: make(map[reflect.Type]table.ElementType)}

func newAccessibleComponent[T any]() AccessibleComponent[T] {
	t := reflect.TypeFor[T]()
	elementTypes.Lock()
	defer elementTypes.Unlock()
	et, ok := elementTypes.byType[t]
	if !ok {
		et = table.FactoryNewElementType[T]()
		elementTypes.byType[t] = et
	}
	return AccessibleComponent[T]{
		Component: et,
		name:      t.String(),
	}
}

// Name returns the Go type name of the component.
func (c AccessibleComponent[T]) Name() string {
	return c.name
}

// GetFromStore retrieves the merged component value for the entity.
// The pointer is valid until the next structural change to the collection.
func (c AccessibleComponent[T]) GetFromStore(sto *Store, egid EGID) (*T, error) {
	coll, err := sto.Collection(egid.Group, c)
	if err != nil {
		return nil, err
	}
	return c.fromCollection(coll, egid)
}

// GetPendingFromStore retrieves a component value that was built but not flushed yet.
func (c AccessibleComponent[T]) GetPendingFromStore(sto *Store, egid EGID) (*T, error) {
	coll, err := sto.Pending(egid.Group, c)
	if err != nil {
		return nil, err
	}
	return c.fromCollection(coll, egid)
}

// GetFromCursor retrieves the component value of the entity at the cursor position.
func (c AccessibleComponent[T]) GetFromCursor(cursor *Cursor) *T {
	typed, ok := cursor.collection.(*collection[T])
	if !ok {
		return nil
	}
	return &typed.values[cursor.index-1]
}

func (c AccessibleComponent[T]) fromCollection(coll Collection, egid EGID) (*T, error) {
	typed, ok := coll.(*collection[T])
	if !ok {
		return nil, ComponentTypeMismatchError{Component: c.name, Value: coll}
	}
	value, ok := typed.get(egid.ID)
	if !ok {
		return nil, EntityNotFoundError{Entity: egid, Component: c.name}
	}
	return value, nil
}

func componentName(c Component) string {
	if named, ok := c.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%v", c)
}
