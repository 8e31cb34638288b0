package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSide is the Dr/Cr suffix of a displayed balance.
type BalanceSide string

const (
	SideDr BalanceSide = "Dr"
	SideCr BalanceSide = "Cr"
)

// AccountBalance is a derived balance together with its display facts.
type AccountBalance struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	AsOf        *time.Time      `json:"asOf,omitempty"`
	Amount      decimal.Decimal `json:"amount"`    // signed, debit positive
	Magnitude   decimal.Decimal `json:"magnitude"` // absolute value shown to users
	Side        BalanceSide     `json:"side"`
	Unusual     bool            `json:"unusual"` // balance sits on the opposite side of the account's polarity
}

// StatementEntry is one row of a ledger statement.
type StatementEntry struct {
	TransactionID     string          `json:"transactionID"`
	TransactionNumber string          `json:"transactionNumber"`
	Date              time.Time       `json:"date"`
	Type              TransactionType `json:"type"`
	CounterpartyID    string          `json:"counterpartyID"`
	CounterpartyName  string          `json:"counterpartyName"`
	Debit             decimal.Decimal `json:"debit"`
	Credit            decimal.Decimal `json:"credit"`
	RunningBalance    decimal.Decimal `json:"runningBalance"`
	Note              string          `json:"note"`
}

// LedgerStatement is the chronological running-balance view of one account.
type LedgerStatement struct {
	Account        Account          `json:"account"`
	StartDate      *time.Time       `json:"startDate,omitempty"`
	EndDate        *time.Time       `json:"endDate,omitempty"`
	OpeningBalance decimal.Decimal  `json:"openingBalance"`
	Entries        []StatementEntry `json:"entries"`
	TotalDebit     decimal.Decimal  `json:"totalDebit"`
	TotalCredit    decimal.Decimal  `json:"totalCredit"`
	ClosingBalance decimal.Decimal  `json:"closingBalance"`
}

// DashboardRow summarises one agent's day. Amounts are agent-credit-positive:
// a positive figure is what the agent holds on behalf of the business.
type DashboardRow struct {
	AgentID    string          `json:"agentID"`
	AgentName  string          `json:"agentName"`
	AccountID  string          `json:"accountID"`
	Opening    decimal.Decimal `json:"opening"`
	Received   decimal.Decimal `json:"received"`
	Commission decimal.Decimal `json:"commission"`
	Paid       decimal.Decimal `json:"paid"`
	Cancelled  decimal.Decimal `json:"cancelled"`
	Other      decimal.Decimal `json:"other"`
	Closing    decimal.Decimal `json:"closing"`
}

// Dashboard is the daily per-agent summary plus a totals row.
type Dashboard struct {
	Date   time.Time      `json:"date"`
	Rows   []DashboardRow `json:"rows"`
	Totals DashboardRow   `json:"totals"`
}

// CommissionLine is one transaction contributing to an agent's commission.
type CommissionLine struct {
	TransactionID     string          `json:"transactionID"`
	TransactionNumber string          `json:"transactionNumber"`
	Date              time.Time       `json:"date"`
	Type              TransactionType `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Commission        decimal.Decimal `json:"commission"`
	Note              string          `json:"note"`
}

// AgentCommission groups commission lines for one agent.
type AgentCommission struct {
	AgentID         string           `json:"agentID"`
	AgentName       string           `json:"agentName"`
	AccountID       string           `json:"accountID"`
	TotalCommission decimal.Decimal  `json:"totalCommission"`
	Transactions    []CommissionLine `json:"transactions"`
}

// CommissionReport sums commission by agent over a date range.
type CommissionReport struct {
	FromDate   time.Time         `json:"fromDate"`
	ToDate     time.Time         `json:"toDate"`
	Agents     []AgentCommission `json:"agents"`
	GrandTotal decimal.Decimal   `json:"grandTotal"`
}

// RegisterSummary carries per-type totals of a transaction register.
type RegisterSummary struct {
	Receipts   decimal.Decimal `json:"receipts"`
	Payments   decimal.Decimal `json:"payments"`
	Journals   decimal.Decimal `json:"journals"`
	Commission decimal.Decimal `json:"commission"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	Count      int             `json:"count"`
}

// RegisterEntry is a transaction enriched with account names for display.
type RegisterEntry struct {
	Transaction
	DebitAccountName  string `json:"debitAccountName"`
	CreditAccountName string `json:"creditAccountName"`
}

// TransactionRegister is the flat chronological list of transactions in a range.
type TransactionRegister struct {
	FromDate time.Time        `json:"fromDate"`
	ToDate   time.Time        `json:"toDate"`
	Type     *TransactionType `json:"type,omitempty"`
	Entries  []RegisterEntry  `json:"entries"`
	Summary  RegisterSummary  `json:"summary"`
}

// ReconciliationIssue describes an account whose derived balances disagree.
type ReconciliationIssue struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	BulkBalance decimal.Decimal `json:"bulkBalance"`
	FoldBalance decimal.Decimal `json:"foldBalance"`
}

// ReconciliationResult is the outcome of replaying the whole ledger.
type ReconciliationResult struct {
	AsOf          *time.Time            `json:"asOf,omitempty"`
	AccountsCount int                   `json:"accountsCount"`
	Net           decimal.Decimal       `json:"net"` // sum of all balances; zero in a closed ledger
	Issues        []ReconciliationIssue `json:"issues"`
}
