package silo

import "github.com/rs/zerolog"

// Config holds global defaults picked up by every store created afterwards
var Config config = config{logger: zerolog.Nop()}

type config struct {
	collectionEvents CollectionEvents
	logger           zerolog.Logger
}

// CollectionEvents are callbacks fired by collections on internal changes
type CollectionEvents struct {
	// OnGrow fires whenever an insert has to reallocate the backing storage.
	OnGrow func(component string, oldCap, newCap int)
}

// SetCollectionEvents configures the collection event callbacks
func (c *config) SetCollectionEvents(ce CollectionEvents) {
	c.collectionEvents = ce
}

// SetLogger configures the default store logger
func (c *config) SetLogger(logger zerolog.Logger) {
	c.logger = logger
}
