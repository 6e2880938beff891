package silo

// Engine observes structural changes for the component types it was registered for.
// component is a pointer to the stored value and must not be retained past the call.
type Engine interface {
	Add(egid EGID, component any)
	Remove(egid EGID, component any)
}

// NewReactiveEngine adapts typed callbacks into an Engine. Either callback may be nil.
func NewReactiveEngine[T any](onAdd, onRemove func(EGID, *T)) Engine {
	return reactiveEngine[T]{onAdd: onAdd, onRemove: onRemove}
}

type reactiveEngine[T any] struct {
	onAdd    func(EGID, *T)
	onRemove func(EGID, *T)
}

func (r reactiveEngine[T]) Add(egid EGID, component any) {
	if value, ok := component.(*T); ok && r.onAdd != nil {
		r.onAdd(egid, value)
	}
}

func (r reactiveEngine[T]) Remove(egid EGID, component any) {
	if value, ok := component.(*T); ok && r.onRemove != nil {
		r.onRemove(egid, value)
	}
}

// engineRegistry maps a component type key to its engines, in registration order.
type engineRegistry struct {
	byType map[uint32][]Engine
}

func newEngineRegistry() engineRegistry {
	return engineRegistry{byType: make(map[uint32][]Engine)}
}

func (r *engineRegistry) register(engine Engine, key uint32) {
	r.byType[key] = append(r.byType[key], engine)
}

func (r *engineRegistry) enginesFor(key uint32) []Engine {
	return r.byType[key]
}
