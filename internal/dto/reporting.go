package dto

import (
	"github.com/munna98/cashdesk/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerStatementParams defines query parameters for an account statement.
type LedgerStatementParams struct {
	StartDate string `form:"startDate" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"endDate" binding:"omitempty,datetime=2006-01-02"`
}

// DashboardParams defines query parameters for the daily agent dashboard.
type DashboardParams struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"` // defaults to today
}

// DateRangeParams defines an inclusive reporting range.
type DateRangeParams struct {
	FromDate string `form:"fromDate" binding:"required,datetime=2006-01-02"`
	ToDate   string `form:"toDate" binding:"required,datetime=2006-01-02"`
}

// RegisterParams defines query parameters for the transaction register.
type RegisterParams struct {
	DateRangeParams
	Type string `form:"type" binding:"omitempty,oneof=receipt payment journalentry"`
}

// StatementEntryResponse is one row of a ledger statement.
type StatementEntryResponse struct {
	TransactionID     string                 `json:"transactionID"`
	TransactionNumber string                 `json:"transactionNumber"`
	Date              string                 `json:"date"`
	Type              domain.TransactionType `json:"type"`
	CounterpartyID    string                 `json:"counterpartyID"`
	CounterpartyName  string                 `json:"counterpartyName"`
	Debit             decimal.Decimal        `json:"debit"`
	Credit            decimal.Decimal        `json:"credit"`
	RunningBalance    decimal.Decimal        `json:"runningBalance"`
	Note              string                 `json:"note"`
}

// LedgerStatementResponse is the running-balance statement of one account.
type LedgerStatementResponse struct {
	Account        AccountResponse          `json:"account"`
	StartDate      string                   `json:"startDate,omitempty"`
	EndDate        string                   `json:"endDate,omitempty"`
	OpeningBalance decimal.Decimal          `json:"openingBalance"`
	Entries        []StatementEntryResponse `json:"entries"`
	TotalDebit     decimal.Decimal          `json:"totalDebit"`
	TotalCredit    decimal.Decimal          `json:"totalCredit"`
	ClosingBalance decimal.Decimal          `json:"closingBalance"`
	Display        string                   `json:"display"`
}

// ToLedgerStatementResponse converts a domain statement to its DTO. display is
// the formatted closing balance.
func ToLedgerStatementResponse(st *domain.LedgerStatement, display string) LedgerStatementResponse {
	res := LedgerStatementResponse{
		Account:        ToAccountResponse(&st.Account),
		OpeningBalance: st.OpeningBalance,
		Entries:        make([]StatementEntryResponse, len(st.Entries)),
		TotalDebit:     st.TotalDebit,
		TotalCredit:    st.TotalCredit,
		ClosingBalance: st.ClosingBalance,
		Display:        display,
	}
	if st.StartDate != nil {
		res.StartDate = FormatDate(*st.StartDate)
	}
	if st.EndDate != nil {
		res.EndDate = FormatDate(*st.EndDate)
	}
	for i, e := range st.Entries {
		res.Entries[i] = StatementEntryResponse{
			TransactionID:     e.TransactionID,
			TransactionNumber: e.TransactionNumber,
			Date:              FormatDate(e.Date),
			Type:              e.Type,
			CounterpartyID:    e.CounterpartyID,
			CounterpartyName:  e.CounterpartyName,
			Debit:             e.Debit,
			Credit:            e.Credit,
			RunningBalance:    e.RunningBalance,
			Note:              e.Note,
		}
	}
	return res
}

// DashboardResponse is the daily agent summary.
type DashboardResponse struct {
	Date   string                `json:"date"`
	Rows   []domain.DashboardRow `json:"rows"`
	Totals domain.DashboardRow   `json:"totals"`
}

// ToDashboardResponse converts a domain dashboard to its DTO.
func ToDashboardResponse(d *domain.Dashboard) DashboardResponse {
	rows := d.Rows
	if rows == nil {
		rows = []domain.DashboardRow{}
	}
	return DashboardResponse{
		Date:   FormatDate(d.Date),
		Rows:   rows,
		Totals: d.Totals,
	}
}

// CommissionReportResponse sums commission by agent.
type CommissionReportResponse struct {
	FromDate   string                   `json:"fromDate"`
	ToDate     string                   `json:"toDate"`
	Agents     []domain.AgentCommission `json:"agents"`
	GrandTotal decimal.Decimal          `json:"grandTotal"`
}

// ToCommissionReportResponse converts a domain commission report to its DTO.
func ToCommissionReportResponse(r *domain.CommissionReport) CommissionReportResponse {
	agents := r.Agents
	if agents == nil {
		agents = []domain.AgentCommission{}
	}
	return CommissionReportResponse{
		FromDate:   FormatDate(r.FromDate),
		ToDate:     FormatDate(r.ToDate),
		Agents:     agents,
		GrandTotal: r.GrandTotal,
	}
}

// RegisterEntryResponse is a posting with its account names.
type RegisterEntryResponse struct {
	TransactionResponse
	DebitAccountName  string `json:"debitAccountName"`
	CreditAccountName string `json:"creditAccountName"`
}

// TransactionRegisterResponse is the flat list of postings in a range.
type TransactionRegisterResponse struct {
	FromDate string                  `json:"fromDate"`
	ToDate   string                  `json:"toDate"`
	Type     *domain.TransactionType `json:"type,omitempty"`
	Entries  []RegisterEntryResponse `json:"entries"`
	Summary  domain.RegisterSummary  `json:"summary"`
}

// ToTransactionRegisterResponse converts a domain register to its DTO.
func ToTransactionRegisterResponse(r *domain.TransactionRegister) TransactionRegisterResponse {
	res := TransactionRegisterResponse{
		FromDate: FormatDate(r.FromDate),
		ToDate:   FormatDate(r.ToDate),
		Type:     r.Type,
		Entries:  make([]RegisterEntryResponse, len(r.Entries)),
		Summary:  r.Summary,
	}
	for i := range r.Entries {
		res.Entries[i] = RegisterEntryResponse{
			TransactionResponse: ToTransactionResponse(&r.Entries[i].Transaction),
			DebitAccountName:    r.Entries[i].DebitAccountName,
			CreditAccountName:   r.Entries[i].CreditAccountName,
		}
	}
	return res
}
