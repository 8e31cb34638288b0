package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a posting by the workflow that produced it.
type TransactionType string

const (
	Receipt      TransactionType = "receipt"
	Payment      TransactionType = "payment"
	JournalEntry TransactionType = "journalentry"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == Receipt || t == Payment || t == JournalEntry
}

// NumberPrefix returns the document prefix used in transaction numbers.
func (t TransactionType) NumberPrefix() string {
	switch t {
	case Receipt:
		return "RCT"
	case Payment:
		return "PMT"
	case JournalEntry:
		return "JNL"
	}
	return ""
}

// CounterName is the sequence counter that numbers transactions of this type.
func (t TransactionType) CounterName() string {
	return string(t)
}

// FormatTransactionNumber renders {PREFIX}-{year}-{seq:05d}.
func FormatTransactionNumber(t TransactionType, year int, seq int64) (string, error) {
	prefix := t.NumberPrefix()
	if prefix == "" {
		return "", fmt.Errorf("no number prefix for transaction type %q", t)
	}
	if seq <= 0 {
		return "", fmt.Errorf("sequence must be positive, got %d", seq)
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, year, seq), nil
}

// Note markers written alongside the explicit flags for human readers.
const (
	OpeningBalanceNotePrefix = "Opening balance for"
	CommissionNotePrefix     = "Commission for receipt"
	CancelledNotePrefix      = "Cancelled"
)

// Transaction is a single ledger posting: one debit and one credit of the same amount.
type Transaction struct {
	TransactionID     string          `json:"transactionID"`
	TransactionNumber string          `json:"transactionNumber"`
	Type              TransactionType `json:"type"`
	DebitAccountID    string          `json:"debitAccountID"`
	CreditAccountID   string          `json:"creditAccountID"`
	Amount            decimal.Decimal `json:"amount"`
	CommissionAmount  decimal.Decimal `json:"commissionAmount"` // receipts only
	Date              time.Time       `json:"date"`             // business date
	Note              string          `json:"note"`

	IsOpeningBalance  bool    `json:"isOpeningBalance"`
	OpeningBalanceFor *string `json:"openingBalanceFor,omitempty"` // account whose stored opening balance this journal mirrors
	IsCancellation    bool    `json:"isCancellation"`
	ReversalOf        *string `json:"reversalOf,omitempty"` // cancelled payment
	IsCommission      bool    `json:"isCommission"`
	CommissionFor     *string `json:"commissionFor,omitempty"` // receipt that owns this commission payment

	AuditFields
}

// Touches reports whether the posting debits or credits the account.
func (t Transaction) Touches(accountID string) bool {
	return t.DebitAccountID == accountID || t.CreditAccountID == accountID
}

// CounterpartyOf returns the other account of the posting relative to accountID.
func (t Transaction) CounterpartyOf(accountID string) string {
	if t.DebitAccountID == accountID {
		return t.CreditAccountID
	}
	return t.DebitAccountID
}

// MirrorsOpeningOf reports whether the posting is the opening-balance journal of the account.
func (t Transaction) MirrorsOpeningOf(accountID string) bool {
	return t.IsOpeningBalance && t.OpeningBalanceFor != nil && *t.OpeningBalanceFor == accountID
}

// IsLedgerManaged reports whether the posting is maintained by the ledger itself
// and must not be edited or removed directly.
func (t Transaction) IsLedgerManaged() bool {
	return t.CommissionFor != nil || t.IsOpeningBalance
}
