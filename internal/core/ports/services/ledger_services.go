package services

import (
	"context"

	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/munna98/cashdesk/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines read operations for ledger postings
type LedgerReaderSvc interface {
	// GetTransactionByID retrieves a specific posting by its ID.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves one page of postings in ledger order.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// LedgerWriterSvc defines write operations for ledger postings
type LedgerWriterSvc interface {
	// PostTransaction records a receipt, payment or journal entry. A receipt with a
	// commission also records its commission payment.
	PostTransaction(ctx context.Context, req dto.PostTransactionRequest, userID string) (*domain.Transaction, error)

	// UpdateTransaction edits a receipt or payment and reconciles the receipt's commission payment.
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error)

	// DeleteTransaction removes a posting. Deleting a receipt also removes its commission payment.
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error

	// CancelPayment posts the reversing payment of an existing payment.
	CancelPayment(ctx context.Context, paymentID string, req dto.CancelPaymentRequest, userID string) (*domain.Transaction, error)
}

// OpeningBalancePoster posts opening-balance journals against the Opening Balance account.
type OpeningBalancePoster interface {
	// PostOpeningBalance posts a journal moving account's opening balance by delta.
	// It returns nil when delta is zero.
	PostOpeningBalance(ctx context.Context, account domain.Account, delta decimal.Decimal, userID string) (*domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
	OpeningBalancePoster
}
