package repositories

import (
	"context"
	"time"

	"github.com/munna98/cashdesk/internal/core/domain"
)

// TransactionFilter narrows a transaction query. Zero values mean "no constraint".
// FromDate and ToDate are inclusive business dates.
type TransactionFilter struct {
	AccountIDs []string // postings debiting or crediting any of these accounts
	FromDate   *time.Time
	ToDate     *time.Time
	Types      []domain.TransactionType
}

// TransactionReader defines read operations for ledger postings
type TransactionReader interface {
	// FindTransactionByID retrieves a specific posting by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindCommissionPayment retrieves the commission payment owned by a receipt.
	FindCommissionPayment(ctx context.Context, receiptID string) (*domain.Transaction, error)

	// FindCancellation retrieves the posting that cancels a payment.
	FindCancellation(ctx context.Context, paymentID string) (*domain.Transaction, error)

	// ListTransactions retrieves every posting matching the filter, ordered by date, creation time and id.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]domain.Transaction, error)

	// ListTransactionsPage retrieves one page of postings in ledger order using token-based pagination.
	// It returns the postings, a token for the next page, and an error.
	ListTransactionsPage(ctx context.Context, filter TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// CountTransactionsByAccount counts the postings that debit or credit the account.
	CountTransactionsByAccount(ctx context.Context, accountID string) (int, error)
}

// TransactionWriter defines write operations for ledger postings
type TransactionWriter interface {
	// SaveTransaction appends a new posting.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction overwrites the mutable fields of an existing posting.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// DeleteTransaction removes a posting permanently.
	DeleteTransaction(ctx context.Context, transactionID string) error
}

// TransactionRepositoryFacade combines all posting-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
