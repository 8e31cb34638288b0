package services

import (
	"context"
	"time"

	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSvc derives account balances from the transaction log.
// Balances are signed, debit positive. A nil asOf means all postings.
type BalanceSvc interface {
	// GetBalance derives one account's balance as of a business date.
	GetBalance(ctx context.Context, accountID string, asOf *time.Time) (decimal.Decimal, error)

	// GetBalances derives many balances with one pass over the log.
	GetBalances(ctx context.Context, accountIDs []string, asOf *time.Time) (map[string]decimal.Decimal, error)

	// GetOpeningBalance derives the balance strictly before date.
	GetOpeningBalance(ctx context.Context, accountID string, date time.Time) (decimal.Decimal, error)

	// DescribeBalance derives a balance together with its Dr/Cr display facts.
	DescribeBalance(ctx context.Context, accountID string, asOf *time.Time) (*domain.AccountBalance, error)

	// DescribeBalances is the batch variant of DescribeBalance, in the order of accountIDs.
	DescribeBalances(ctx context.Context, accountIDs []string, asOf *time.Time) ([]domain.AccountBalance, error)

	// FormatBalance renders a balance with the configured currency symbol.
	FormatBalance(balance domain.AccountBalance) string
}
