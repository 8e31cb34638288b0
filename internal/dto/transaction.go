package dto

import (
	"time"

	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostTransactionRequest defines the data needed to post a receipt, payment or journal entry.
type PostTransactionRequest struct {
	Type             domain.TransactionType `json:"type" binding:"required,oneof=receipt payment journalentry"`
	DebitAccountID   string                 `json:"debitAccountID" binding:"required"`
	CreditAccountID  string                 `json:"creditAccountID" binding:"required,nefield=DebitAccountID"`
	Amount           decimal.Decimal        `json:"amount"`
	CommissionAmount decimal.Decimal        `json:"commissionAmount"` // receipts only
	Date             time.Time              `json:"date" binding:"required"`
	Note             string                 `json:"note" binding:"max=1000"`
}

// UpdateTransactionRequest defines the fields that may change on a receipt or payment.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateTransactionRequest struct {
	Amount           *decimal.Decimal `json:"amount"`
	CommissionAmount *decimal.Decimal `json:"commissionAmount"`
	DebitAccountID   *string          `json:"debitAccountID" binding:"omitempty,min=1"`
	CreditAccountID  *string          `json:"creditAccountID" binding:"omitempty,min=1"`
	Date             *time.Time       `json:"date"`
	Note             *string          `json:"note" binding:"omitempty,max=1000"`
}

// CancelPaymentRequest defines the data needed to cancel a payment.
type CancelPaymentRequest struct {
	Date time.Time `json:"date" binding:"required"`
	Note string    `json:"note" binding:"max=1000"`
}

// TransactionResponse defines the data returned for a posting.
type TransactionResponse struct {
	TransactionID     string                 `json:"transactionID"`
	TransactionNumber string                 `json:"transactionNumber"`
	Type              domain.TransactionType `json:"type"`
	DebitAccountID    string                 `json:"debitAccountID"`
	CreditAccountID   string                 `json:"creditAccountID"`
	Amount            decimal.Decimal        `json:"amount"`
	CommissionAmount  decimal.Decimal        `json:"commissionAmount"`
	Date              string                 `json:"date"`
	Note              string                 `json:"note"`
	IsOpeningBalance  bool                   `json:"isOpeningBalance"`
	OpeningBalanceFor *string                `json:"openingBalanceFor,omitempty"`
	IsCancellation    bool                   `json:"isCancellation"`
	ReversalOf        *string                `json:"reversalOf,omitempty"`
	IsCommission      bool                   `json:"isCommission"`
	CommissionFor     *string                `json:"commissionFor,omitempty"`
	CreatedAt         time.Time              `json:"createdAt"`
	CreatedBy         string                 `json:"createdBy"`
	LastUpdatedAt     time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy     string                 `json:"lastUpdatedBy"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     txn.TransactionID,
		TransactionNumber: txn.TransactionNumber,
		Type:              txn.Type,
		DebitAccountID:    txn.DebitAccountID,
		CreditAccountID:   txn.CreditAccountID,
		Amount:            txn.Amount,
		CommissionAmount:  txn.CommissionAmount,
		Date:              FormatDate(txn.Date),
		Note:              txn.Note,
		IsOpeningBalance:  txn.IsOpeningBalance,
		OpeningBalanceFor: txn.OpeningBalanceFor,
		IsCancellation:    txn.IsCancellation,
		ReversalOf:        txn.ReversalOf,
		IsCommission:      txn.IsCommission,
		CommissionFor:     txn.CommissionFor,
		CreatedAt:         txn.CreatedAt,
		CreatedBy:         txn.CreatedBy,
		LastUpdatedAt:     txn.LastUpdatedAt,
		LastUpdatedBy:     txn.LastUpdatedBy,
	}
}

// ToTransactionResponses converts a slice of postings.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}

// ListTransactionsParams defines query parameters for listing postings.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
	Type      string  `form:"type" binding:"omitempty,oneof=receipt payment journalentry"`
	AccountID string  `form:"accountID"`
	FromDate  string  `form:"fromDate" binding:"omitempty,datetime=2006-01-02"`
	ToDate    string  `form:"toDate" binding:"omitempty,datetime=2006-01-02"`
}

// ListTransactionsResponse wraps one page of postings.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}
