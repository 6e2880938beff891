package silo

import "github.com/rs/zerolog"

// StoreOption augments how a Store is created.
type StoreOption func(*Store)

// WithLogger replaces the logger taken from Config.
func WithLogger(logger zerolog.Logger) StoreOption {
	return func(sto *Store) {
		sto.logger = logger
	}
}

// WithDescriptors injects the registry BuildKind resolves entity kinds from.
func WithDescriptors(registry *DescriptorRegistry) StoreOption {
	return func(sto *Store) {
		sto.descriptors = registry
	}
}

// WithCollectionEvents replaces the collection events taken from Config for every collection the store creates.
func WithCollectionEvents(ce CollectionEvents) StoreOption {
	return func(sto *Store) {
		sto.events = ce
	}
}
