package silo

import "slices"

// EntityDescriptor is the ordered, immutable list of builders that make up one entity kind.
// The EntityInfoView builder is always last.
type EntityDescriptor struct {
	builders []ComponentBuilder
}

// NewDescriptor validates the builders and appends the EntityInfoView builder.
func NewDescriptor(builders ...ComponentBuilder) (*EntityDescriptor, error) {
	seen := make(map[string]struct{}, len(builders)+1)
	seen[entityInfoViewComponent.Name()] = struct{}{}
	for _, b := range builders {
		if _, dup := seen[b.Name()]; dup {
			return nil, DuplicateComponentError{Component: b.Name()}
		}
		seen[b.Name()] = struct{}{}
	}

	d := &EntityDescriptor{}
	all := make([]ComponentBuilder, 0, len(builders)+1)
	all = append(all, builders...)
	all = append(all, newEntityInfoViewBuilder(d))
	d.builders = all
	return d, nil
}

// MustNewDescriptor is NewDescriptor for package level declarations.
func MustNewDescriptor(builders ...ComponentBuilder) *EntityDescriptor {
	d, err := NewDescriptor(builders...)
	if err != nil {
		panic(err)
	}
	return d
}

// Builders returns a copy of the builder sequence.
func (d *EntityDescriptor) Builders() []ComponentBuilder {
	return slices.Clone(d.builders)
}

func (d *EntityDescriptor) Len() int {
	return len(d.builders)
}
