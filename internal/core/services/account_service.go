package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/dto"
	"github.com/shopspring/decimal"
)

// systemUserID stamps records created by bootstrap rather than by a caller.
const systemUserID = "system"

const defaultPageSize = 20

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo   portsrepo.AccountRepositoryFacade
	txManager     portsrepo.TransactionManager
	openingPoster portssvc.OpeningBalancePoster
	balances      portssvc.BalanceSvc
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountTransactionManager runs multi-step account writes in one storage transaction.
func WithAccountTransactionManager(tm portsrepo.TransactionManager) AccountServiceOption {
	return func(s *accountService) {
		s.txManager = tm
	}
}

// WithOpeningBalancePoster enables opening balances on manual accounts.
func WithOpeningBalancePoster(poster portssvc.OpeningBalancePoster) AccountServiceOption {
	return func(s *accountService) {
		s.openingPoster = poster
	}
}

// WithAccountBalances fills the derived Balance field on read.
func WithAccountBalances(balances portssvc.BalanceSvc) AccountServiceOption {
	return func(s *accountService) {
		s.balances = balances
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) withinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.txManager == nil {
		return fn(ctx)
	}
	return s.txManager.WithinTransaction(ctx, fn)
}

func (s *accountService) EnsureDefaultAccounts(ctx context.Context) error {
	for _, key := range []domain.WellKnownAccount{domain.WellKnownCash, domain.WellKnownCommission} {
		if _, err := s.ensureWellKnown(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (s *accountService) EnsureOpeningBalanceAccount(ctx context.Context) (*domain.Account, error) {
	return s.ensureWellKnown(ctx, domain.WellKnownOpeningBalance)
}

// ensureWellKnown creates a singleton unless it already exists. A concurrent
// creator winning the insert is treated as the account already being present.
func (s *accountService) ensureWellKnown(ctx context.Context, key domain.WellKnownAccount) (*domain.Account, error) {
	existing, err := s.accountRepo.FindAccountByWellKnown(ctx, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to look up well-known account", slog.String("well_known", string(key)))
		return nil, err
	}

	account := domain.Account{
		AccountID:   uuid.NewString(),
		Name:        key.DefaultName(),
		AccountType: key.AccountType(),
		WellKnown:   key,
		AuditFields: domain.NewAuditFields(systemUserID, time.Now()),
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogDebug(ctx, "Well-known account created concurrently", slog.String("well_known", string(key)))
			return s.accountRepo.FindAccountByWellKnown(ctx, key)
		}
		s.LogError(ctx, err, "Failed to create well-known account", slog.String("well_known", string(key)))
		return nil, err
	}

	s.LogInfo(ctx, "Well-known account created",
		slog.String("well_known", string(key)),
		slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountService) ResolveWellKnown(ctx context.Context, key domain.WellKnownAccount) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByWellKnown(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewConflictError("%s account does not exist, run bootstrap first", key.DefaultName())
		}
		s.LogError(ctx, err, "Failed to resolve well-known account", slog.String("well_known", string(key)))
		return nil, err
	}
	return account, nil
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("account name is required")
	}
	switch req.AccountType {
	case domain.Expense, domain.Income, domain.Liability, domain.Equity:
	default:
		return nil, apperrors.NewValidationError("accounts of type %q cannot be created manually", req.AccountType)
	}
	if req.WellKnown != domain.WellKnownNone {
		if req.WellKnown != domain.WellKnownOpeningBalance {
			return nil, apperrors.NewValidationError("well-known key %q cannot be assigned manually", req.WellKnown)
		}
		if req.AccountType != domain.Equity {
			return nil, apperrors.NewValidationError("the opening balance account must be of type equity")
		}
		if !req.OpeningBalance.IsZero() {
			return nil, apperrors.NewValidationError("the opening balance account cannot carry an opening balance")
		}
	}
	if err := checkReservedName(name, req.AccountType, req.WellKnown); err != nil {
		return nil, err
	}
	if !req.OpeningBalance.IsZero() && s.openingPoster == nil {
		return nil, apperrors.NewValidationError("opening balances are not supported for manual accounts")
	}

	account := domain.Account{
		AccountID:      uuid.NewString(),
		Name:           name,
		AccountType:    req.AccountType,
		WellKnown:      req.WellKnown,
		OpeningBalance: req.OpeningBalance,
		AuditFields:    domain.NewAuditFields(userID, time.Now()),
	}

	err := s.withinTransaction(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return err
		}
		if account.OpeningBalance.IsZero() {
			return nil
		}
		_, err := s.openingPoster.PostOpeningBalance(ctx, account, account.OpeningBalance, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create account",
			slog.String("account_id", account.AccountID),
			slog.String("account_type", string(account.AccountType)))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(account.AccountType)))
	account.Balance = s.balanceOf(ctx, account)
	return &account, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsLinked() {
		return nil, apperrors.NewValidationError("linked %s accounts are renamed through their %s", account.LinkedEntityType, account.LinkedEntityType)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("account name cannot be empty")
		}
		if name != account.Name && (account.WellKnown == domain.WellKnownCash || account.WellKnown == domain.WellKnownCommission) {
			return nil, apperrors.NewConflictError("the %s account cannot be renamed", account.Name)
		}
		if err := checkReservedName(name, account.AccountType, account.WellKnown); err != nil {
			return nil, err
		}
		account.Name = name
	}

	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully", slog.String("account_id", accountID))
	account.Balance = s.balanceOf(ctx, *account)
	return account, nil
}

// checkReservedName keeps "Commission" unique among income accounts.
func checkReservedName(name string, accountType domain.AccountType, key domain.WellKnownAccount) error {
	if accountType == domain.Income && key != domain.WellKnownCommission && strings.EqualFold(name, domain.CommissionAccountName) {
		return fmt.Errorf("%w: an income account named %q already exists", apperrors.ErrDuplicate, domain.CommissionAccountName)
	}
	return nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	account.Balance = s.balanceOf(ctx, *account)
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs", slog.Int("count", len(accountIDs)))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) FindByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	if !accountType.IsValid() {
		return nil, apperrors.NewValidationError("unknown account type %q", accountType)
	}
	accounts, err := s.accountRepo.FindAccountsByType(ctx, accountType)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by type", slog.String("account_type", string(accountType)))
		return nil, err
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *accountService) FindByLinkedEntity(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.Account, error) {
	if !kind.IsValid() {
		return nil, apperrors.NewValidationError("unknown entity kind %q", kind)
	}
	return s.accountRepo.FindAccountByLinkedEntity(ctx, kind, entityID)
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	limit, offset := params.Limit, params.Offset
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}

	var (
		accounts []domain.Account
		err      error
	)
	if params.Type != "" {
		accounts, err = s.FindByType(ctx, params.Type)
		if err == nil {
			accounts = pageOf(accounts, limit, offset)
		}
	} else {
		accounts, err = s.accountRepo.ListAccounts(ctx, limit, offset)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}

	if s.balances != nil && len(accounts) > 0 {
		ids := make([]string, len(accounts))
		for i, a := range accounts {
			ids[i] = a.AccountID
		}
		balances, err := s.balances.GetBalances(ctx, ids, nil)
		if err != nil {
			return nil, err
		}
		for i := range accounts {
			accounts[i].Balance = balances[accounts[i].AccountID]
		}
	}
	return accounts, nil
}

// balanceOf derives the account's current balance. Failures are logged and
// leave the balance at zero so that reads of the account itself still succeed.
func (s *accountService) balanceOf(ctx context.Context, account domain.Account) decimal.Decimal {
	if s.balances == nil {
		return account.Balance
	}
	derived, err := s.balances.GetBalance(ctx, account.AccountID, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to derive account balance", slog.String("account_id", account.AccountID))
		return account.Balance
	}
	return derived
}

func pageOf[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
