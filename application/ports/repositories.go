package ports

import (
	"context"

	"funder/domain/shared"
)

// EntityRepository defines the interface for entity persistence.
// Entities are stored as their canonical documents, keyed by type and id.
type EntityRepository interface {
	// Save persists an entity (create or replace)
	Save(ctx context.Context, entity shared.Identified) error

	// Get retrieves an entity by discriminator and id
	Get(ctx context.Context, tag, id string) (shared.Identified, error)

	// ListByParent retrieves entities attached to a parent, e.g. the scoped
	// data, goals and locators of a project
	ListByParent(ctx context.Context, parent string, limit int) ([]shared.Identified, error)
}

// EventPublisher announces stored entities to other services
type EventPublisher interface {
	// PublishStored sends an EntityStored event for each entity
	PublishStored(ctx context.Context, entities ...shared.Identified) error
}

// Metrics records service-level measurements
type Metrics interface {
	ObserveDecode(tag string, err error)
	ObserveStore(tag string, err error)
}
