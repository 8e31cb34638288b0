package repositories

import (
	"context"

	"github.com/munna98/cashdesk/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindAccountsByType retrieves every account of the given type, ordered by name.
	FindAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)

	// FindAccountByLinkedEntity retrieves the account mirroring an agent, recipient or employee.
	FindAccountByLinkedEntity(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.Account, error)

	// FindAccountByWellKnown retrieves a singleton account by its well-known key.
	FindAccountByWellKnown(ctx context.Context, key domain.WellKnownAccount) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts ordered by name.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A clash on the well-known key returns apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's name and opening balance.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeleteAccount removes an account permanently.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
