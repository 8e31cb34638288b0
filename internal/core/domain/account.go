package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the bookkeeping type of an account.
type AccountType string

const (
	Cash      AccountType = "cash"
	Expense   AccountType = "expense"
	Income    AccountType = "income"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	AgentAcc  AccountType = "agent"
	Recipient AccountType = "recipient"
	Employee  AccountType = "employee"
)

// IsValid reports whether t is a known account type.
func (t AccountType) IsValid() bool {
	switch t {
	case Cash, Expense, Income, Liability, Equity, AgentAcc, Recipient, Employee:
		return true
	}
	return false
}

// Polarity is the side on which an account type normally carries its balance.
type Polarity string

const (
	DebitNormal  Polarity = "debit"
	CreditNormal Polarity = "credit"
)

// Polarity returns the fixed normal-balance side for the account type.
func (t AccountType) Polarity() Polarity {
	switch t {
	case Income, Liability, AgentAcc, Equity:
		return CreditNormal
	default:
		// cash, expense, recipient, employee
		return DebitNormal
	}
}

// WellKnownAccount keys the process-wide singleton accounts.
type WellKnownAccount string

const (
	WellKnownNone           WellKnownAccount = ""
	WellKnownCash           WellKnownAccount = "cash"
	WellKnownCommission     WellKnownAccount = "commission"
	WellKnownOpeningBalance WellKnownAccount = "opening_balance"
)

// Default names and types of the singleton accounts.
const (
	CashAccountName           = "Cash"
	CommissionAccountName     = "Commission"
	OpeningBalanceAccountName = "Opening Balance"
)

// AccountType returns the account type a well-known singleton must have.
func (k WellKnownAccount) AccountType() AccountType {
	switch k {
	case WellKnownCash:
		return Cash
	case WellKnownCommission:
		return Income
	case WellKnownOpeningBalance:
		return Equity
	}
	return ""
}

// DefaultName returns the name a well-known singleton is created with.
func (k WellKnownAccount) DefaultName() string {
	switch k {
	case WellKnownCash:
		return CashAccountName
	case WellKnownCommission:
		return CommissionAccountName
	case WellKnownOpeningBalance:
		return OpeningBalanceAccountName
	}
	return ""
}

// Account represents a ledger account within the core domain.
type Account struct {
	AccountID        string           `json:"accountID"`
	Name             string           `json:"name"`
	AccountType      AccountType      `json:"accountType"`
	LinkedEntityType EntityKind       `json:"linkedEntityType,omitempty"` // empty for manual accounts
	LinkedEntityID   string           `json:"linkedEntityID,omitempty"`
	WellKnown        WellKnownAccount `json:"wellKnown,omitempty"`
	OpeningBalance   decimal.Decimal  `json:"openingBalance"` // as entered; polarity applied when deriving
	AuditFields
	Balance decimal.Decimal `json:"balance"` // derived on read, never persisted
}

// IsLinked reports whether the account mirrors an agent, recipient or employee.
func (a Account) IsLinked() bool {
	return a.LinkedEntityType != ""
}
