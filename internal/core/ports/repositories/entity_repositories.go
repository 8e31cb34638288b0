package repositories

import (
	"context"

	"github.com/munna98/cashdesk/internal/core/domain"
)

// EntityReader defines read operations for agents, recipients and employees
type EntityReader interface {
	// FindEntityByID retrieves an entity of the given kind by its unique identifier.
	FindEntityByID(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.Entity, error)

	// ListEntities retrieves a paginated list of entities of one kind ordered by name.
	ListEntities(ctx context.Context, kind domain.EntityKind, limit int, offset int) ([]domain.Entity, error)
}

// EntityWriter defines write operations for agents, recipients and employees
type EntityWriter interface {
	// SaveEntity persists a new entity.
	SaveEntity(ctx context.Context, entity domain.Entity) error

	// UpdateEntity updates an existing entity's details.
	UpdateEntity(ctx context.Context, entity domain.Entity) error

	// DeleteEntity removes an entity permanently.
	DeleteEntity(ctx context.Context, kind domain.EntityKind, entityID string) error
}

// EntityRepositoryFacade combines all entity-related repository interfaces
type EntityRepositoryFacade interface {
	EntityReader
	EntityWriter
}
