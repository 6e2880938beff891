package silo

// EntityInfoView is attached to every entity and records the builders that composed it.
// Remove and SwapGroup walk Builders to find every component of the entity.
type EntityInfoView struct {
	Builders []ComponentBuilder
}

var entityInfoViewComponent = newAccessibleComponent[EntityInfoView]()

// EntityInfoViewComponent exposes the component so engines can observe entity lifecycles as a whole.
func EntityInfoViewComponent() AccessibleComponent[EntityInfoView] {
	return entityInfoViewComponent
}

func newEntityInfoViewBuilder(d *EntityDescriptor) ComponentBuilder {
	return NewBuilder(entityInfoViewComponent, func([]any) (EntityInfoView, error) {
		return EntityInfoView{Builders: d.builders}, nil
	})
}
