package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

const reconcilePageSize = 500

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionReader
	balances    portssvc.BalanceSvc
}

// NewReportingService creates the statement and report builder.
func NewReportingService(accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader, balances portssvc.BalanceSvc) portssvc.ReportingService {
	return &reportingService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		balances:    balances,
	}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) GetLedgerStatement(ctx context.Context, accountID string, start, end *time.Time) (*domain.LedgerStatement, error) {
	start, end = businessDatePtr(start), businessDatePtr(end)
	if start != nil && end != nil && start.After(*end) {
		return nil, apperrors.NewValidationError("start date %s is after end date %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	opening := accounting.SignedOpening(*account)
	if start != nil {
		opening, err = s.balances.GetOpeningBalance(ctx, accountID, *start)
		if err != nil {
			return nil, err
		}
	}

	txns, err := s.txnRepo.ListTransactions(ctx, portsrepo.TransactionFilter{
		AccountIDs: []string{accountID},
		FromDate:   start,
		ToDate:     end,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to read postings for statement", slog.String("account_id", accountID))
		return nil, err
	}

	names, err := s.counterpartyNames(ctx, accountID, txns)
	if err != nil {
		return nil, err
	}

	statement := foldStatement(*account, opening, txns, names)
	statement.StartDate, statement.EndDate = start, end

	derived, err := s.balances.GetBalance(ctx, accountID, end)
	if err != nil {
		return nil, err
	}
	if !derived.Equal(statement.ClosingBalance) {
		err := fmt.Errorf("%w: statement of %s closes at %s but derived balance is %s",
			apperrors.ErrConsistency, account.Name, statement.ClosingBalance.String(), derived.String())
		s.LogError(ctx, err, "Ledger statement does not reconcile", slog.String("account_id", accountID))
		return nil, err
	}

	account.Balance = derived
	statement.Account = *account
	return statement, nil
}

// foldStatement replays postings in ledger order on top of opening. The account's
// own opening-balance journals are skipped since opening already includes them.
func foldStatement(account domain.Account, opening decimal.Decimal, txns []domain.Transaction, names map[string]string) *domain.LedgerStatement {
	statement := &domain.LedgerStatement{
		Account:        account,
		OpeningBalance: opening,
		Entries:        []domain.StatementEntry{},
		TotalDebit:     decimal.Zero,
		TotalCredit:    decimal.Zero,
	}
	running := opening
	for _, txn := range txns {
		effect := accounting.PostingEffect(txn, account.AccountID)
		if effect.IsZero() {
			continue
		}
		running = running.Add(effect)

		entry := domain.StatementEntry{
			TransactionID:     txn.TransactionID,
			TransactionNumber: txn.TransactionNumber,
			Date:              txn.Date,
			Type:              txn.Type,
			CounterpartyID:    txn.CounterpartyOf(account.AccountID),
			Debit:             decimal.Zero,
			Credit:            decimal.Zero,
			RunningBalance:    running,
			Note:              txn.Note,
		}
		entry.CounterpartyName = names[entry.CounterpartyID]
		if effect.IsPositive() {
			entry.Debit = effect
			statement.TotalDebit = statement.TotalDebit.Add(effect)
		} else {
			entry.Credit = effect.Neg()
			statement.TotalCredit = statement.TotalCredit.Add(entry.Credit)
		}
		statement.Entries = append(statement.Entries, entry)
	}
	statement.ClosingBalance = running
	return statement
}

func (s *reportingService) counterpartyNames(ctx context.Context, accountID string, txns []domain.Transaction) (map[string]string, error) {
	seen := map[string]struct{}{}
	ids := []string{}
	for _, txn := range txns {
		id := txn.CounterpartyOf(accountID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return s.accountNames(ctx, ids)
}

func (s *reportingService) accountNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve account names", slog.Int("count", len(ids)))
		return nil, err
	}
	for id, acc := range accounts {
		names[id] = acc.Name
	}
	return names, nil
}

func (s *reportingService) GetDashboard(ctx context.Context, date time.Time) (*domain.Dashboard, error) {
	day := domain.BusinessDate(date)
	dashboard := &domain.Dashboard{Date: day, Rows: []domain.DashboardRow{}, Totals: zeroDashboardRow()}

	agents, err := s.accountRepo.FindAccountsByType(ctx, domain.AgentAcc)
	if err != nil {
		s.LogError(ctx, err, "Failed to list agent accounts")
		return nil, err
	}
	if len(agents) == 0 {
		return dashboard, nil
	}

	commissionID, err := s.wellKnownID(ctx, domain.WellKnownCommission)
	if err != nil {
		return nil, err
	}
	recipients, err := s.accountRepo.FindAccountsByType(ctx, domain.Recipient)
	if err != nil {
		return nil, err
	}
	recipientIDs := make(map[string]struct{}, len(recipients))
	for _, r := range recipients {
		recipientIDs[r.AccountID] = struct{}{}
	}

	agentIDs := make([]string, len(agents))
	for i, a := range agents {
		agentIDs[i] = a.AccountID
	}
	dayBefore := day.AddDate(0, 0, -1)
	openings, err := s.balances.GetBalances(ctx, agentIDs, &dayBefore)
	if err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListTransactions(ctx, portsrepo.TransactionFilter{
		AccountIDs: agentIDs,
		FromDate:   &day,
		ToDate:     &day,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to read postings for dashboard")
		return nil, err
	}

	rows := make(map[string]*domain.DashboardRow, len(agents))
	for _, a := range agents {
		row := zeroDashboardRow()
		row.AgentID = a.LinkedEntityID
		row.AgentName = a.Name
		row.AccountID = a.AccountID
		row.Opening = openings[a.AccountID].Neg()
		rows[a.AccountID] = &row
	}

	for _, txn := range txns {
		for _, agentID := range [2]string{txn.DebitAccountID, txn.CreditAccountID} {
			row, ok := rows[agentID]
			if !ok {
				continue
			}
			effect := accounting.PostingEffect(txn, agentID)
			if effect.IsZero() {
				continue
			}
			_, toRecipient := recipientIDs[txn.CreditAccountID]
			switch {
			case txn.Type == domain.Receipt && txn.CreditAccountID == agentID:
				row.Received = row.Received.Add(txn.Amount)
			case txn.Type == domain.JournalEntry && txn.DebitAccountID == agentID && commissionID != "" && txn.CreditAccountID == commissionID:
				row.Commission = row.Commission.Add(txn.Amount)
			case txn.Type == domain.JournalEntry && txn.DebitAccountID == agentID && toRecipient:
				row.Paid = row.Paid.Add(txn.Amount)
			case txn.Type == domain.Payment && txn.IsCancellation && txn.CreditAccountID == agentID:
				row.Cancelled = row.Cancelled.Add(txn.Amount)
			default:
				row.Other = row.Other.Add(effect.Neg())
			}
		}
	}

	for _, a := range agents {
		row := rows[a.AccountID]
		row.Closing = row.Opening.
			Add(row.Received).
			Sub(row.Commission).
			Sub(row.Paid).
			Add(row.Cancelled).
			Add(row.Other)
		dashboard.Rows = append(dashboard.Rows, *row)

		t := &dashboard.Totals
		t.Opening = t.Opening.Add(row.Opening)
		t.Received = t.Received.Add(row.Received)
		t.Commission = t.Commission.Add(row.Commission)
		t.Paid = t.Paid.Add(row.Paid)
		t.Cancelled = t.Cancelled.Add(row.Cancelled)
		t.Other = t.Other.Add(row.Other)
		t.Closing = t.Closing.Add(row.Closing)
	}
	dashboard.Totals.AgentName = "Total"

	s.LogDebug(ctx, "Dashboard built", slog.String("date", day.Format(time.DateOnly)), slog.Int("agents", len(agents)))
	return dashboard, nil
}

func zeroDashboardRow() domain.DashboardRow {
	return domain.DashboardRow{
		Opening:    decimal.Zero,
		Received:   decimal.Zero,
		Commission: decimal.Zero,
		Paid:       decimal.Zero,
		Cancelled:  decimal.Zero,
		Other:      decimal.Zero,
		Closing:    decimal.Zero,
	}
}

func (s *reportingService) GetCommissionReport(ctx context.Context, from, to time.Time, agentID *string) (*domain.CommissionReport, error) {
	from, to = domain.BusinessDate(from), domain.BusinessDate(to)
	if from.After(to) {
		return nil, apperrors.NewValidationError("from date %s is after to date %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	report := &domain.CommissionReport{FromDate: from, ToDate: to, Agents: []domain.AgentCommission{}, GrandTotal: decimal.Zero}

	var agents []domain.Account
	if agentID != nil && *agentID != "" {
		agent, err := s.accountRepo.FindAccountByLinkedEntity(ctx, domain.KindAgent, *agentID)
		if err != nil {
			return nil, err
		}
		agents = []domain.Account{*agent}
	} else {
		var err error
		agents, err = s.accountRepo.FindAccountsByType(ctx, domain.AgentAcc)
		if err != nil {
			s.LogError(ctx, err, "Failed to list agent accounts")
			return nil, err
		}
	}
	if len(agents) == 0 {
		return report, nil
	}

	commissionID, err := s.wellKnownID(ctx, domain.WellKnownCommission)
	if err != nil {
		return nil, err
	}

	agentIDs := make([]string, len(agents))
	for i, a := range agents {
		agentIDs[i] = a.AccountID
	}
	txns, err := s.txnRepo.ListTransactions(ctx, portsrepo.TransactionFilter{
		AccountIDs: agentIDs,
		FromDate:   &from,
		ToDate:     &to,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to read postings for commission report")
		return nil, err
	}

	for _, a := range agents {
		group := domain.AgentCommission{
			AgentID:         a.LinkedEntityID,
			AgentName:       a.Name,
			AccountID:       a.AccountID,
			TotalCommission: decimal.Zero,
			Transactions:    []domain.CommissionLine{},
		}
		for _, txn := range txns {
			var commission decimal.Decimal
			switch {
			case txn.Type == domain.Receipt && txn.CreditAccountID == a.AccountID && txn.CommissionAmount.IsPositive():
				commission = txn.CommissionAmount
			case txn.Type == domain.JournalEntry && txn.DebitAccountID == a.AccountID &&
				(txn.IsCommission || (commissionID != "" && txn.CreditAccountID == commissionID)):
				commission = txn.Amount
			default:
				continue
			}
			group.Transactions = append(group.Transactions, domain.CommissionLine{
				TransactionID:     txn.TransactionID,
				TransactionNumber: txn.TransactionNumber,
				Date:              txn.Date,
				Type:              txn.Type,
				Amount:            txn.Amount,
				Commission:        commission,
				Note:              txn.Note,
			})
			group.TotalCommission = group.TotalCommission.Add(commission)
		}
		if len(group.Transactions) == 0 && agentID == nil {
			continue
		}
		report.Agents = append(report.Agents, group)
		report.GrandTotal = report.GrandTotal.Add(group.TotalCommission)
	}
	return report, nil
}

func (s *reportingService) GetTransactionRegister(ctx context.Context, from, to time.Time, txnType *domain.TransactionType) (*domain.TransactionRegister, error) {
	from, to = domain.BusinessDate(from), domain.BusinessDate(to)
	if from.After(to) {
		return nil, apperrors.NewValidationError("from date %s is after to date %s", from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	filter := portsrepo.TransactionFilter{FromDate: &from, ToDate: &to}
	if txnType != nil {
		if !txnType.IsValid() {
			return nil, apperrors.NewValidationError("unknown transaction type %q", *txnType)
		}
		filter.Types = []domain.TransactionType{*txnType}
	}

	txns, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to read postings for register")
		return nil, err
	}

	seen := map[string]struct{}{}
	ids := []string{}
	for _, txn := range txns {
		for _, id := range [2]string{txn.DebitAccountID, txn.CreditAccountID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	names, err := s.accountNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	register := &domain.TransactionRegister{
		FromDate: from,
		ToDate:   to,
		Type:     txnType,
		Entries:  make([]domain.RegisterEntry, 0, len(txns)),
		Summary: domain.RegisterSummary{
			Receipts:   decimal.Zero,
			Payments:   decimal.Zero,
			Journals:   decimal.Zero,
			Commission: decimal.Zero,
			GrandTotal: decimal.Zero,
		},
	}
	for _, txn := range txns {
		register.Entries = append(register.Entries, domain.RegisterEntry{
			Transaction:       txn,
			DebitAccountName:  names[txn.DebitAccountID],
			CreditAccountName: names[txn.CreditAccountID],
		})
		sum := &register.Summary
		switch txn.Type {
		case domain.Receipt:
			sum.Receipts = sum.Receipts.Add(txn.Amount)
			sum.Commission = sum.Commission.Add(txn.CommissionAmount)
		case domain.Payment:
			sum.Payments = sum.Payments.Add(txn.Amount)
		case domain.JournalEntry:
			sum.Journals = sum.Journals.Add(txn.Amount)
		}
	}
	register.Summary.GrandTotal = register.Summary.Receipts.Add(register.Summary.Payments).Add(register.Summary.Journals)
	register.Summary.Count = len(register.Entries)
	return register, nil
}

// Reconcile compares every account's batch-derived balance with a statement
// fold and checks that the ledger nets to zero. The result is returned even
// when the ledger does not reconcile, together with an ErrConsistency error.
func (s *reportingService) Reconcile(ctx context.Context, asOf *time.Time) (*domain.ReconciliationResult, error) {
	asOf = businessDatePtr(asOf)

	var accounts []domain.Account
	for offset := 0; ; offset += reconcilePageSize {
		page, err := s.accountRepo.ListAccounts(ctx, reconcilePageSize, offset)
		if err != nil {
			s.LogError(ctx, err, "Failed to list accounts for reconciliation")
			return nil, err
		}
		accounts = append(accounts, page...)
		if len(page) < reconcilePageSize {
			break
		}
	}

	result := &domain.ReconciliationResult{
		AsOf:          asOf,
		AccountsCount: len(accounts),
		Net:           decimal.Zero,
		Issues:        []domain.ReconciliationIssue{},
	}
	if len(accounts) == 0 {
		return result, nil
	}

	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.AccountID
	}
	bulk, err := s.balances.GetBalances(ctx, ids, asOf)
	if err != nil {
		return nil, err
	}

	txns, err := s.txnRepo.ListTransactions(ctx, portsrepo.TransactionFilter{ToDate: asOf})
	if err != nil {
		s.LogError(ctx, err, "Failed to read postings for reconciliation")
		return nil, err
	}
	byAccount := make(map[string][]domain.Transaction, len(accounts))
	for _, txn := range txns {
		byAccount[txn.DebitAccountID] = append(byAccount[txn.DebitAccountID], txn)
		byAccount[txn.CreditAccountID] = append(byAccount[txn.CreditAccountID], txn)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	for _, a := range accounts {
		folded := foldStatement(a, accounting.SignedOpening(a), byAccount[a.AccountID], nil).ClosingBalance
		result.Net = result.Net.Add(bulk[a.AccountID])
		if !folded.Equal(bulk[a.AccountID]) {
			result.Issues = append(result.Issues, domain.ReconciliationIssue{
				AccountID:   a.AccountID,
				AccountName: a.Name,
				BulkBalance: bulk[a.AccountID],
				FoldBalance: folded,
			})
		}
	}

	if len(result.Issues) > 0 || !result.Net.IsZero() {
		err := fmt.Errorf("%w: %d accounts disagree, ledger nets to %s", apperrors.ErrConsistency, len(result.Issues), result.Net.String())
		s.LogError(ctx, err, "Ledger does not reconcile")
		return result, err
	}

	s.LogInfo(ctx, "Ledger reconciled", slog.Int("accounts", result.AccountsCount), slog.Int("postings", len(txns)))
	return result, nil
}

// wellKnownID returns the singleton's account ID, or "" when it does not exist.
func (s *reportingService) wellKnownID(ctx context.Context, key domain.WellKnownAccount) (string, error) {
	account, err := s.accountRepo.FindAccountByWellKnown(ctx, key)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return account.AccountID, nil
}

func businessDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := domain.BusinessDate(*t)
	return &d
}
