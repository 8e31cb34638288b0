package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol prefixes formatted balances when none is configured.
const DefaultCurrencySymbol = "₹"

type balanceService struct {
	BaseService
	accountRepo    portsrepo.AccountReader
	txnRepo        portsrepo.TransactionReader
	currencySymbol string
}

// BalanceServiceOption is a functional option for configuring the balance service
type BalanceServiceOption func(*balanceService)

// WithCurrencySymbol sets the symbol used by FormatBalance.
func WithCurrencySymbol(symbol string) BalanceServiceOption {
	return func(s *balanceService) {
		if symbol != "" {
			s.currencySymbol = symbol
		}
	}
}

// NewBalanceService creates the balance derivation engine.
func NewBalanceService(accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader, options ...BalanceServiceOption) portssvc.BalanceSvc {
	svc := &balanceService{
		accountRepo:    accountRepo,
		txnRepo:        txnRepo,
		currencySymbol: DefaultCurrencySymbol,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func (s *balanceService) GetBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	balances, err := s.GetBalances(ctx, []string{accountID}, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return balances[accountID], nil
}

func (s *balanceService) GetBalances(ctx context.Context, accountIDs []string, asOf *time.Time) (map[string]decimal.Decimal, error) {
	accounts, err := s.loadAccounts(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	return s.derive(ctx, accounts, asOf)
}

func (s *balanceService) GetOpeningBalance(ctx context.Context, accountID string, date time.Time) (decimal.Decimal, error) {
	dayBefore := domain.BusinessDate(date).AddDate(0, 0, -1)
	return s.GetBalance(ctx, accountID, &dayBefore)
}

func (s *balanceService) DescribeBalance(ctx context.Context, accountID string, asOf *time.Time) (*domain.AccountBalance, error) {
	balances, err := s.DescribeBalances(ctx, []string{accountID}, asOf)
	if err != nil {
		return nil, err
	}
	return &balances[0], nil
}

func (s *balanceService) DescribeBalances(ctx context.Context, accountIDs []string, asOf *time.Time) ([]domain.AccountBalance, error) {
	accounts, err := s.loadAccounts(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	balances, err := s.derive(ctx, accounts, asOf)
	if err != nil {
		return nil, err
	}

	res := make([]domain.AccountBalance, 0, len(accountIDs))
	for _, id := range accountIDs {
		described := accounting.DescribeBalance(accounts[id], balances[id])
		described.AsOf = asOf
		res = append(res, described)
	}
	return res, nil
}

func (s *balanceService) FormatBalance(balance domain.AccountBalance) string {
	return accounting.FormatBalance(s.currencySymbol, balance)
}

func (s *balanceService) loadAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for balance derivation", slog.Int("count", len(accountIDs)))
		return nil, err
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, apperrors.NewNotFoundError("account %s", id)
		}
	}
	return accounts, nil
}

// derive reads every posting touching the accounts once and folds them together.
func (s *balanceService) derive(ctx context.Context, accounts map[string]domain.Account, asOf *time.Time) (map[string]decimal.Decimal, error) {
	if len(accounts) == 0 {
		return map[string]decimal.Decimal{}, nil
	}
	ids := make([]string, 0, len(accounts))
	for id := range accounts {
		ids = append(ids, id)
	}

	filter := portsrepo.TransactionFilter{AccountIDs: ids}
	if asOf != nil {
		day := domain.BusinessDate(*asOf)
		filter.ToDate = &day
	}
	txns, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to read postings for balance derivation", slog.Int("accounts", len(ids)))
		return nil, err
	}

	balances := accounting.DeriveBalances(accounts, txns)
	s.LogDebug(ctx, "Derived balances", slog.Int("accounts", len(ids)), slog.Int("postings", len(txns)))
	return balances, nil
}
