package silo

// DescriptorRegistry resolves entity kinds to descriptors. It is filled once during
// initialization and injected into the store. A capacity of zero or less means no bound.
type DescriptorRegistry struct {
	descriptors []*EntityDescriptor
	indices     map[string]int
	maxCapacity int
}

func newDescriptorRegistry(capacity int) *DescriptorRegistry {
	return &DescriptorRegistry{
		indices:     make(map[string]int),
		maxCapacity: capacity,
	}
}

func (r *DescriptorRegistry) Register(kind string, d *EntityDescriptor) (int, error) {
	if _, exists := r.indices[kind]; exists {
		return -1, DescriptorExistsError{Kind: kind}
	}
	if r.maxCapacity > 0 && len(r.descriptors) >= r.maxCapacity {
		return -1, RegistryFullError{Capacity: r.maxCapacity}
	}
	idx := len(r.descriptors)
	r.indices[kind] = idx
	r.descriptors = append(r.descriptors, d)
	return idx, nil
}

func (r *DescriptorRegistry) Index(kind string) (int, bool) {
	idx, ok := r.indices[kind]
	return idx, ok
}

func (r *DescriptorRegistry) At(index int) *EntityDescriptor {
	return r.descriptors[index]
}

func (r *DescriptorRegistry) Descriptor(kind string) (*EntityDescriptor, error) {
	idx, ok := r.indices[kind]
	if !ok {
		return nil, DescriptorNotFoundError{Kind: kind}
	}
	return r.descriptors[idx], nil
}

func (r *DescriptorRegistry) Len() int {
	return len(r.descriptors)
}
