package services

import (
	"context"
	"time"

	"github.com/munna98/cashdesk/internal/core/domain"
)

// ReportingService defines operations for generating statements and reports
type ReportingService interface {
	// GetLedgerStatement builds the running-balance statement of one account.
	GetLedgerStatement(ctx context.Context, accountID string, start, end *time.Time) (*domain.LedgerStatement, error)

	// GetDashboard summarises every agent's movements on one business date.
	GetDashboard(ctx context.Context, date time.Time) (*domain.Dashboard, error)

	// GetCommissionReport sums commission by agent over an inclusive date range.
	GetCommissionReport(ctx context.Context, from, to time.Time, agentID *string) (*domain.CommissionReport, error)

	// GetTransactionRegister lists postings in an inclusive date range with per-type totals.
	GetTransactionRegister(ctx context.Context, from, to time.Time, txnType *domain.TransactionType) (*domain.TransactionRegister, error)

	// Reconcile replays the whole ledger and checks every account's balance two ways.
	Reconcile(ctx context.Context, asOf *time.Time) (*domain.ReconciliationResult, error)
}
