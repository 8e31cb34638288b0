package services

import (
	"context"

	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/munna98/cashdesk/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts by their IDs.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindByType retrieves every account of one type.
	FindByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error)

	// FindByLinkedEntity retrieves the account mirroring an agent, recipient or employee.
	FindByLinkedEntity(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.Account, error)

	// ResolveWellKnown retrieves a singleton account. A missing singleton is a conflict.
	ResolveWellKnown(ctx context.Context, key domain.WellKnownAccount) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts, optionally of a single type.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for manual accounts
type AccountWriterSvc interface {
	// CreateAccount persists a new manual account and posts its opening balance.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount renames a manual account.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)
}

// AccountBootstrapSvc creates the singleton accounts.
type AccountBootstrapSvc interface {
	// EnsureDefaultAccounts idempotently creates the Cash and Commission accounts.
	EnsureDefaultAccounts(ctx context.Context) error

	// EnsureOpeningBalanceAccount idempotently creates the Opening Balance equity account.
	EnsureOpeningBalanceAccount(ctx context.Context) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountBootstrapSvc
}
