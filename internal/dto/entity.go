package dto

import (
	"time"

	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntityRequest defines the data needed to create an agent, recipient or employee.
type CreateEntityRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=255"`
	Mobile         string          `json:"mobile" binding:"omitempty,max=20"`
	Email          string          `json:"email" binding:"omitempty,email"`
	Address        string          `json:"address" binding:"max=500"`
	CommPercent    decimal.Decimal `json:"commPercent"`    // agents only
	OpeningBalance decimal.Decimal `json:"openingBalance"` // agents and recipients only
}

// UpdateEntityRequest defines the fields that may change on an entity.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateEntityRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=255"`
	Mobile         *string          `json:"mobile" binding:"omitempty,max=20"`
	Email          *string          `json:"email" binding:"omitempty,email"`
	Address        *string          `json:"address" binding:"omitempty,max=500"`
	CommPercent    *decimal.Decimal `json:"commPercent"`
	OpeningBalance *decimal.Decimal `json:"openingBalance"`
}

// EntityResponse defines the data returned for an entity.
type EntityResponse struct {
	EntityID       string            `json:"entityID"`
	Kind           domain.EntityKind `json:"kind"`
	Name           string            `json:"name"`
	Mobile         string            `json:"mobile,omitempty"`
	Email          string            `json:"email,omitempty"`
	Address        string            `json:"address,omitempty"`
	CommPercent    decimal.Decimal   `json:"commPercent"`
	OpeningBalance decimal.Decimal   `json:"openingBalance"`
	AccountID      string            `json:"accountID"`
	CreatedAt      time.Time         `json:"createdAt"`
	CreatedBy      string            `json:"createdBy"`
	LastUpdatedAt  time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy  string            `json:"lastUpdatedBy"`
}

// CreateEntityResponse is returned when an entity and its account are created together.
type CreateEntityResponse struct {
	Entity  EntityResponse  `json:"entity"`
	Account AccountResponse `json:"account"`
}

// ToEntityResponse converts a domain.Entity to EntityResponse DTO
func ToEntityResponse(e *domain.Entity) EntityResponse {
	return EntityResponse{
		EntityID:       e.EntityID,
		Kind:           e.Kind,
		Name:           e.Name,
		Mobile:         e.Mobile,
		Email:          e.Email,
		Address:        e.Address,
		CommPercent:    e.CommPercent,
		OpeningBalance: e.OpeningBalance,
		AccountID:      e.AccountID,
		CreatedAt:      e.CreatedAt,
		CreatedBy:      e.CreatedBy,
		LastUpdatedAt:  e.LastUpdatedAt,
		LastUpdatedBy:  e.LastUpdatedBy,
	}
}

// ToCreateEntityResponse converts the result of an entity creation.
func ToCreateEntityResponse(res *domain.EntityWithAccount) CreateEntityResponse {
	return CreateEntityResponse{
		Entity:  ToEntityResponse(&res.Entity),
		Account: ToAccountResponse(&res.Account),
	}
}

// ListEntitiesParams defines query parameters for listing entities.
type ListEntitiesParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListEntitiesResponse wraps a list of entities.
type ListEntitiesResponse struct {
	Entities []EntityResponse `json:"entities"`
}
