package silo

// ComponentBuilder carries everything the store needs to know about one component type of an entity kind.
type ComponentBuilder interface {
	Component() Component
	Name() string
	// Construct builds the component value from the raw inputs handed to Build.
	Construct(inputs []any) (any, error)
	// Preallocate returns c with room for n entries, creating the collection when c is nil.
	Preallocate(c Collection, n int) Collection
	MoveEntry(id uint32, from, to Collection) error
	NewCollection() Collection
}

// Constructor turns raw build inputs into a component value.
type Constructor[T any] func(inputs []any) (T, error)

// NewBuilder returns the builder for component. With a nil construct the first input
// of type T or *T is used, falling back to the zero value.
func NewBuilder[T any](component AccessibleComponent[T], construct Constructor[T]) ComponentBuilder {
	return builder[T]{component: component, construct: construct}
}

var _ ComponentBuilder = builder[struct{}]{}

type builder[T any] struct {
	component AccessibleComponent[T]
	construct Constructor[T]
}

func (b builder[T]) Component() Component {
	return b.component
}

func (b builder[T]) Name() string {
	return b.component.Name()
}

func (b builder[T]) Construct(inputs []any) (any, error) {
	if b.construct != nil {
		value, err := b.construct(inputs)
		if err != nil {
			return nil, err
		}
		return value, nil
	}
	for _, input := range inputs {
		switch v := input.(type) {
		case T:
			return v, nil
		case *T:
			if v != nil {
				return *v, nil
			}
		}
	}
	var zero T
	return zero, nil
}

func (b builder[T]) Preallocate(c Collection, n int) Collection {
	if c == nil {
		return newCollection[T](b.component.Name(), n)
	}
	c.Reserve(n)
	return c
}

func (b builder[T]) MoveEntry(id uint32, from, to Collection) error {
	return from.MoveEntry(id, to)
}

func (b builder[T]) NewCollection() Collection {
	return newCollection[T](b.component.Name(), 0)
}
