package services

import (
	"context"

	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/munna98/cashdesk/internal/dto"
)

// EntityReaderSvc defines read operations for agents, recipients and employees
type EntityReaderSvc interface {
	// GetEntity retrieves an entity of the given kind.
	GetEntity(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.Entity, error)

	// ListEntities retrieves a paginated list of entities of one kind.
	ListEntities(ctx context.Context, kind domain.EntityKind, params dto.ListEntitiesParams) ([]domain.Entity, error)
}

// EntityWriterSvc defines write operations for agents, recipients and employees
type EntityWriterSvc interface {
	// CreateEntity creates the entity, its linked account and its opening-balance journal as one unit.
	CreateEntity(ctx context.Context, kind domain.EntityKind, req dto.CreateEntityRequest, userID string) (*domain.EntityWithAccount, error)

	// UpdateEntity edits an entity, propagating its name and opening balance to the linked account.
	UpdateEntity(ctx context.Context, kind domain.EntityKind, entityID string, req dto.UpdateEntityRequest, userID string) (*domain.Entity, error)

	// DeleteEntity removes an entity and its account when no postings reference the account.
	DeleteEntity(ctx context.Context, kind domain.EntityKind, entityID string, userID string) error
}

// EntitySvcFacade combines all entity-related service interfaces
type EntitySvcFacade interface {
	EntityReaderSvc
	EntityWriterSvc
}
