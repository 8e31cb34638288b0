package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the transactions table: one debit/credit pair.
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	TransactionNumber string          `db:"transaction_number"`
	TransactionType   string          `db:"transaction_type"`
	DebitAccountID    string          `db:"debit_account_id"`
	CreditAccountID   string          `db:"credit_account_id"`
	Amount            decimal.Decimal `db:"amount"`
	CommissionAmount  decimal.Decimal `db:"commission_amount"`
	TransactionDate   time.Time       `db:"transaction_date"`
	Note              string          `db:"note"`
	IsOpeningBalance  bool            `db:"is_opening_balance"`
	OpeningBalanceFor *string         `db:"opening_balance_for"` // Nullable
	IsCancellation    bool            `db:"is_cancellation"`
	ReversalOf        *string         `db:"reversal_of"` // Nullable
	IsCommission      bool            `db:"is_commission"`
	CommissionFor     *string         `db:"commission_for"` // Nullable, unique
	AuditFields
}
