package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/core/services"
	"github.com/munna98/cashdesk/internal/dto"
	"github.com/munna98/cashdesk/internal/repositories/memory"
)

const tester = "tester"

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// ledgerFixture wires the real services over a fresh in-memory store.
type ledgerFixture struct {
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
	cash  *domain.Account
	comm  *domain.Account
	year  int
}

func newLedgerFixture(t *testing.T, withOpening bool) *ledgerFixture {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	svc := services.NewServiceContainer(nil, repos)

	require.NoError(t, svc.Account.EnsureDefaultAccounts(ctx))
	if withOpening {
		_, err := svc.Account.EnsureOpeningBalanceAccount(ctx)
		require.NoError(t, err)
	}
	cash, err := svc.Account.ResolveWellKnown(ctx, domain.WellKnownCash)
	require.NoError(t, err)
	comm, err := svc.Account.ResolveWellKnown(ctx, domain.WellKnownCommission)
	require.NoError(t, err)

	return &ledgerFixture{repos: repos, svc: svc, cash: cash, comm: comm, year: time.Now().UTC().Year()}
}

func (f *ledgerFixture) number(prefix string, seq int) string {
	return fmt.Sprintf("%s-%d-%05d", prefix, f.year, seq)
}

func (f *ledgerFixture) balance(t *testing.T, accountID string) decimal.Decimal {
	t.Helper()
	b, err := f.svc.Balance.GetBalance(context.Background(), accountID, nil)
	require.NoError(t, err)
	return b
}

func (f *ledgerFixture) agent(t *testing.T, name string, opening int64) *domain.EntityWithAccount {
	t.Helper()
	created, err := f.svc.Entity.CreateEntity(context.Background(), domain.KindAgent, dto.CreateEntityRequest{
		Name:           name,
		CommPercent:    dec(5),
		OpeningBalance: dec(opening),
	}, tester)
	require.NoError(t, err)
	return created
}

func (f *ledgerFixture) post(t *testing.T, req dto.PostTransactionRequest) *domain.Transaction {
	t.Helper()
	if req.Date.IsZero() {
		req.Date = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	}
	txn, err := f.svc.Ledger.PostTransaction(context.Background(), req, tester)
	require.NoError(t, err)
	return txn
}

// assertBalanced checks that every account's balances sum to zero and agree
// with a full replay.
func (f *ledgerFixture) assertBalanced(t *testing.T) {
	t.Helper()
	result, err := f.svc.Reporting.Reconcile(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Issues)
	assert.True(t, result.Net.IsZero(), "ledger nets to %s", result.Net)
}

// --- Scenario suite ---

type LedgerScenarioSuite struct {
	suite.Suite
	f   *ledgerFixture
	ctx context.Context
}

func TestLedgerScenarios(t *testing.T) {
	suite.Run(t, new(LedgerScenarioSuite))
}

func (s *LedgerScenarioSuite) SetupTest() {
	s.f = newLedgerFixture(s.T(), true)
	s.ctx = context.Background()
}

func (s *LedgerScenarioSuite) TestAgentOpeningBalance() {
	created := s.f.agent(s.T(), "Salim", 1000)

	s.True(s.f.balance(s.T(), created.Account.AccountID).Equal(dec(-1000)))

	txns, err := s.f.repos.TransactionRepo.ListTransactions(s.ctx, portsrepo.TransactionFilter{AccountIDs: []string{created.Account.AccountID}})
	s.Require().NoError(err)
	s.Require().Len(txns, 1)
	journal := txns[0]
	s.Equal(s.f.number("JNL", 1), journal.TransactionNumber)
	s.True(journal.IsOpeningBalance)
	s.Require().NotNil(journal.OpeningBalanceFor)
	s.Equal(created.Account.AccountID, *journal.OpeningBalanceFor)
	s.True(journal.Amount.Equal(dec(1000)))
	s.Equal(created.Account.AccountID, journal.CreditAccountID)

	s.f.assertBalanced(s.T())
}

func (s *LedgerScenarioSuite) TestReceiptWithCommissionThenCommissionJournal() {
	agent := s.f.agent(s.T(), "Salim", 1000)
	agentID := agent.Account.AccountID

	receipt := s.f.post(s.T(), dto.PostTransactionRequest{
		Type:             domain.Receipt,
		DebitAccountID:   s.f.cash.AccountID,
		CreditAccountID:  agentID,
		Amount:           dec(2000),
		CommissionAmount: dec(100),
	})
	s.Equal(s.f.number("RCT", 1), receipt.TransactionNumber)

	link, err := s.f.repos.TransactionRepo.FindCommissionPayment(s.ctx, receipt.TransactionID)
	s.Require().NoError(err)
	s.Equal(s.f.number("PMT", 1), link.TransactionNumber)
	s.Equal(s.f.comm.AccountID, link.DebitAccountID)
	s.Equal(s.f.cash.AccountID, link.CreditAccountID)
	s.True(link.IsCommission)
	s.True(link.Amount.Equal(dec(100)))

	journal := s.f.post(s.T(), dto.PostTransactionRequest{
		Type:            domain.JournalEntry,
		DebitAccountID:  agentID,
		CreditAccountID: s.f.comm.AccountID,
		Amount:          dec(100),
	})
	s.True(journal.IsCommission, "agent to Commission journals are commission")
	s.Equal(s.f.number("JNL", 2), journal.TransactionNumber)

	s.True(s.f.balance(s.T(), agentID).Equal(dec(-2900)))
	s.True(s.f.balance(s.T(), s.f.cash.AccountID).Equal(dec(1900)))
	s.True(s.f.balance(s.T(), s.f.comm.AccountID).IsZero())

	report, err := s.f.svc.Reporting.GetCommissionReport(s.ctx,
		time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), nil)
	s.Require().NoError(err)
	s.Require().Len(report.Agents, 1)
	s.True(report.GrandTotal.Equal(dec(200)), "receipt commission plus journal, got %s", report.GrandTotal)

	s.f.assertBalanced(s.T())
}

func (s *LedgerScenarioSuite) TestCancelPaymentShowsOnDashboard() {
	agent := s.f.agent(s.T(), "Salim", 0)
	agentID := agent.Account.AccountID
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	payment := s.f.post(s.T(), dto.PostTransactionRequest{
		Type:            domain.Payment,
		DebitAccountID:  agentID,
		CreditAccountID: s.f.cash.AccountID,
		Amount:          dec(300),
		Date:            day,
	})
	cancellation, err := s.f.svc.Ledger.CancelPayment(s.ctx, payment.TransactionID, dto.CancelPaymentRequest{Date: day}, tester)
	s.Require().NoError(err)
	s.True(cancellation.IsCancellation)
	s.Equal(payment.CreditAccountID, cancellation.DebitAccountID)
	s.Equal(payment.DebitAccountID, cancellation.CreditAccountID)
	s.Contains(cancellation.Note, payment.TransactionNumber)

	dashboard, err := s.f.svc.Reporting.GetDashboard(s.ctx, day)
	s.Require().NoError(err)
	s.Require().Len(dashboard.Rows, 1)
	s.True(dashboard.Rows[0].Cancelled.Equal(dec(300)), "got %s", dashboard.Rows[0].Cancelled)
	s.True(s.f.balance(s.T(), agentID).IsZero())

	_, err = s.f.svc.Ledger.CancelPayment(s.ctx, payment.TransactionID, dto.CancelPaymentRequest{Date: day}, tester)
	s.ErrorIs(err, apperrors.ErrConflict, "a payment is cancelled at most once")

	err = s.f.svc.Ledger.DeleteTransaction(s.ctx, payment.TransactionID, tester)
	s.ErrorIs(err, apperrors.ErrConflict, "cancelled payments are frozen")

	s.f.assertBalanced(s.T())
}

func (s *LedgerScenarioSuite) TestReceiptCommissionToZeroDeletesCommissionPayment() {
	agent := s.f.agent(s.T(), "Salim", 0)
	receipt := s.f.post(s.T(), dto.PostTransactionRequest{
		Type:             domain.Receipt,
		DebitAccountID:   s.f.cash.AccountID,
		CreditAccountID:  agent.Account.AccountID,
		Amount:           dec(2000),
		CommissionAmount: dec(100),
	})
	before := s.f.balance(s.T(), s.f.comm.AccountID)

	zero := decimal.Zero
	updated, err := s.f.svc.Ledger.UpdateTransaction(s.ctx, receipt.TransactionID, dto.UpdateTransactionRequest{CommissionAmount: &zero}, tester)
	s.Require().NoError(err)
	s.True(updated.CommissionAmount.IsZero())

	_, err = s.f.repos.TransactionRepo.FindCommissionPayment(s.ctx, receipt.TransactionID)
	s.ErrorIs(err, apperrors.ErrNotFound)

	after := s.f.balance(s.T(), s.f.comm.AccountID)
	s.True(before.Sub(after).Equal(dec(100)), "commission moved from %s to %s", before, after)

	// Raising it again recreates the payment.
	fifty := dec(50)
	_, err = s.f.svc.Ledger.UpdateTransaction(s.ctx, receipt.TransactionID, dto.UpdateTransactionRequest{CommissionAmount: &fifty}, tester)
	s.Require().NoError(err)
	link, err := s.f.repos.TransactionRepo.FindCommissionPayment(s.ctx, receipt.TransactionID)
	s.Require().NoError(err)
	s.True(link.Amount.Equal(fifty))

	s.f.assertBalanced(s.T())
}

func (s *LedgerScenarioSuite) TestUpdatingReceiptKeepsCommissionInStep() {
	agent := s.f.agent(s.T(), "Salim", 0)
	bank, err := s.f.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{Name: "Bank", AccountType: domain.Liability}, tester)
	s.Require().NoError(err)

	receipt := s.f.post(s.T(), dto.PostTransactionRequest{
		Type:             domain.Receipt,
		DebitAccountID:   s.f.cash.AccountID,
		CreditAccountID:  agent.Account.AccountID,
		Amount:           dec(1000),
		CommissionAmount: dec(40),
	})

	newDate := time.Date(2024, 5, 9, 15, 30, 0, 0, time.UTC)
	seventy := dec(70)
	_, err = s.f.svc.Ledger.UpdateTransaction(s.ctx, receipt.TransactionID, dto.UpdateTransactionRequest{
		CommissionAmount: &seventy,
		DebitAccountID:   &bank.AccountID,
		Date:             &newDate,
	}, tester)
	s.Require().NoError(err)

	link, err := s.f.repos.TransactionRepo.FindCommissionPayment(s.ctx, receipt.TransactionID)
	s.Require().NoError(err)
	s.True(link.Amount.Equal(seventy))
	s.Equal(bank.AccountID, link.CreditAccountID)
	s.True(link.Date.Equal(domain.BusinessDate(newDate)))

	s.f.assertBalanced(s.T())
}

func (s *LedgerScenarioSuite) TestDeleteReceiptCascadesToCommission() {
	agent := s.f.agent(s.T(), "Salim", 0)
	receipt := s.f.post(s.T(), dto.PostTransactionRequest{
		Type:             domain.Receipt,
		DebitAccountID:   s.f.cash.AccountID,
		CreditAccountID:  agent.Account.AccountID,
		Amount:           dec(500),
		CommissionAmount: dec(25),
	})
	link, err := s.f.repos.TransactionRepo.FindCommissionPayment(s.ctx, receipt.TransactionID)
	s.Require().NoError(err)

	// The commission payment is owned by the receipt.
	err = s.f.svc.Ledger.DeleteTransaction(s.ctx, link.TransactionID, tester)
	s.ErrorIs(err, apperrors.ErrConflict)
	_, err = s.f.svc.Ledger.UpdateTransaction(s.ctx, link.TransactionID, dto.UpdateTransactionRequest{Amount: ptr(dec(1))}, tester)
	s.ErrorIs(err, apperrors.ErrConflict)

	s.Require().NoError(s.f.svc.Ledger.DeleteTransaction(s.ctx, receipt.TransactionID, tester))

	_, err = s.f.repos.TransactionRepo.FindTransactionByID(s.ctx, link.TransactionID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	s.True(s.f.balance(s.T(), s.f.cash.AccountID).IsZero())
	s.True(s.f.balance(s.T(), s.f.comm.AccountID).IsZero())

	// With no postings left the agent can go.
	s.Require().NoError(s.f.svc.Entity.DeleteEntity(s.ctx, domain.KindAgent, agent.Entity.EntityID, tester))
	_, err = s.f.repos.AccountRepo.FindAccountByID(s.ctx, agent.Account.AccountID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerScenarioSuite) TestPostingRejections() {
	agent := s.f.agent(s.T(), "Salim", 0)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		req     dto.PostTransactionRequest
		wantErr error
	}{
		{
			name:    "same account both sides",
			req:     dto.PostTransactionRequest{Type: domain.Payment, DebitAccountID: s.f.cash.AccountID, CreditAccountID: s.f.cash.AccountID, Amount: dec(5), Date: day},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "non-positive amount",
			req:     dto.PostTransactionRequest{Type: domain.Payment, DebitAccountID: agent.Account.AccountID, CreditAccountID: s.f.cash.AccountID, Amount: dec(0), Date: day},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "commission above amount",
			req:     dto.PostTransactionRequest{Type: domain.Receipt, DebitAccountID: s.f.cash.AccountID, CreditAccountID: agent.Account.AccountID, Amount: dec(50), CommissionAmount: dec(60), Date: day},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "commission on a payment",
			req:     dto.PostTransactionRequest{Type: domain.Payment, DebitAccountID: agent.Account.AccountID, CreditAccountID: s.f.cash.AccountID, Amount: dec(50), CommissionAmount: dec(5), Date: day},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "unknown account",
			req:     dto.PostTransactionRequest{Type: domain.Payment, DebitAccountID: "nope", CreditAccountID: s.f.cash.AccountID, Amount: dec(5), Date: day},
			wantErr: apperrors.ErrNotFound,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.f.svc.Ledger.PostTransaction(s.ctx, tt.req, tester)
			s.ErrorIs(err, tt.wantErr)
		})
	}

	// None of the rejected postings consumed a number.
	ok := s.f.post(s.T(), dto.PostTransactionRequest{Type: domain.Payment, DebitAccountID: agent.Account.AccountID, CreditAccountID: s.f.cash.AccountID, Amount: dec(5), Date: day})
	s.Equal(s.f.number("PMT", 1), ok.TransactionNumber)
}

func (s *LedgerScenarioSuite) TestOnlyPaymentsCanBeCancelled() {
	agent := s.f.agent(s.T(), "Salim", 0)
	receipt := s.f.post(s.T(), dto.PostTransactionRequest{
		Type:            domain.Receipt,
		DebitAccountID:  s.f.cash.AccountID,
		CreditAccountID: agent.Account.AccountID,
		Amount:          dec(10),
	})

	_, err := s.f.svc.Ledger.CancelPayment(s.ctx, receipt.TransactionID, dto.CancelPaymentRequest{Date: time.Now()}, tester)
	s.ErrorIs(err, apperrors.ErrValidation)

	_, err = s.f.svc.Ledger.UpdateTransaction(s.ctx, "missing", dto.UpdateTransactionRequest{}, tester)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerScenarioSuite) TestJournalEntriesCannotBeEdited() {
	created := s.f.agent(s.T(), "Salim", 10)
	txns, err := s.f.repos.TransactionRepo.ListTransactions(s.ctx, portsrepo.TransactionFilter{Types: []domain.TransactionType{domain.JournalEntry}})
	s.Require().NoError(err)
	s.Require().Len(txns, 1)

	_, err = s.f.svc.Ledger.UpdateTransaction(s.ctx, txns[0].TransactionID, dto.UpdateTransactionRequest{Amount: ptr(dec(20))}, tester)
	s.ErrorIs(err, apperrors.ErrValidation)

	// Opening-balance journals follow the entity instead.
	_, err = s.f.svc.Entity.UpdateEntity(s.ctx, domain.KindAgent, created.Entity.EntityID, dto.UpdateEntityRequest{OpeningBalance: ptr(dec(25))}, tester)
	s.Require().NoError(err)
	s.True(s.f.balance(s.T(), created.Account.AccountID).Equal(dec(-25)))
	s.f.assertBalanced(s.T())
}

func (s *LedgerScenarioSuite) TestListTransactionsPagesInLedgerOrder() {
	agent := s.f.agent(s.T(), "Salim", 0)
	for i := 0; i < 5; i++ {
		s.f.post(s.T(), dto.PostTransactionRequest{
			Type:            domain.Payment,
			DebitAccountID:  agent.Account.AccountID,
			CreditAccountID: s.f.cash.AccountID,
			Amount:          dec(int64(i + 1)),
			Date:            time.Date(2024, 5, 10-i, 0, 0, 0, 0, time.UTC),
		})
	}

	var seen []dto.TransactionResponse
	params := dto.ListTransactionsParams{Limit: 2, AccountID: agent.Account.AccountID}
	for {
		page, err := s.f.svc.Ledger.ListTransactions(s.ctx, params)
		s.Require().NoError(err)
		seen = append(seen, page.Transactions...)
		if page.NextToken == nil {
			break
		}
		params.NextToken = page.NextToken
	}
	s.Require().Len(seen, 5)
	s.Equal("2024-05-06", seen[0].Date)
	s.Equal("2024-05-10", seen[4].Date)

	_, err := s.f.svc.Ledger.ListTransactions(s.ctx, dto.ListTransactionsParams{Type: "refund"})
	s.ErrorIs(err, apperrors.ErrValidation)
}

// --- Properties outside the suite ---

func TestLedger_NumbersUseClockYear(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	clock := func() time.Time { return time.Date(2031, 1, 2, 3, 4, 5, 0, time.UTC) }
	ledger := services.NewLedgerService(repos.AccountRepo, repos.TransactionRepo, repos.CounterRepo, repos.TxManager, services.WithLedgerClock(clock))

	now := clock()
	for _, acc := range []domain.Account{
		{AccountID: "rent", Name: "Rent", AccountType: domain.Expense, AuditFields: domain.NewAuditFields(tester, now)},
		{AccountID: "capital", Name: "Capital", AccountType: domain.Equity, AuditFields: domain.NewAuditFields(tester, now)},
	} {
		require.NoError(t, repos.AccountRepo.SaveAccount(ctx, acc))
	}

	txn, err := ledger.PostTransaction(ctx, dto.PostTransactionRequest{
		Type:            domain.JournalEntry,
		DebitAccountID:  "rent",
		CreditAccountID: "capital",
		Amount:          dec(9),
		Date:            time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}, tester)
	require.NoError(t, err)
	assert.Equal(t, "JNL-2031-00001", txn.TransactionNumber)
	assert.Equal(t, now, txn.CreatedAt)
	assert.False(t, txn.IsCommission)
}

func TestLedger_ConcurrentPostingsGetDistinctNumbers(t *testing.T) {
	f := newLedgerFixture(t, false)
	rent, err := f.svc.Account.CreateAccount(context.Background(), dto.CreateAccountRequest{Name: "Rent", AccountType: domain.Expense}, tester)
	require.NoError(t, err)

	const workers = 32
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[string]bool{}
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			txn, err := f.svc.Ledger.PostTransaction(context.Background(), dto.PostTransactionRequest{
				Type:            domain.Payment,
				DebitAccountID:  rent.AccountID,
				CreditAccountID: f.cash.AccountID,
				Amount:          dec(1),
				Date:            time.Now(),
			}, tester)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			numbers[txn.TransactionNumber] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, numbers, workers)
	for i := 1; i <= workers; i++ {
		assert.True(t, numbers[f.number("PMT", i)], "missing %s", f.number("PMT", i))
	}
	assert.True(t, f.balance(t, f.cash.AccountID).Equal(dec(-workers)))
	f.assertBalanced(t)
}

func TestLedger_MissingOpeningAccountRollsBackEntity(t *testing.T) {
	f := newLedgerFixture(t, false)
	ctx := context.Background()

	_, err := f.svc.Entity.CreateEntity(ctx, domain.KindAgent, dto.CreateEntityRequest{Name: "Salim", OpeningBalance: dec(1000)}, tester)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	agents, err := f.repos.AccountRepo.FindAccountsByType(ctx, domain.AgentAcc)
	require.NoError(t, err)
	assert.Empty(t, agents)
	entities, err := f.repos.EntityRepo.ListEntities(ctx, domain.KindAgent, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entities)

	// Without an opening balance nothing needs the Opening Balance account.
	created, err := f.svc.Entity.CreateEntity(ctx, domain.KindAgent, dto.CreateEntityRequest{Name: "Salim"}, tester)
	require.NoError(t, err)
	assert.True(t, f.balance(t, created.Account.AccountID).IsZero())

	_, err = f.svc.Account.EnsureOpeningBalanceAccount(ctx)
	require.NoError(t, err)
	created, err = f.svc.Entity.CreateEntity(ctx, domain.KindRecipient, dto.CreateEntityRequest{Name: "Fathima", OpeningBalance: dec(40)}, tester)
	require.NoError(t, err)

	txns, err := f.repos.TransactionRepo.ListTransactions(ctx, portsrepo.TransactionFilter{AccountIDs: []string{created.Account.AccountID}})
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, f.number("JNL", 1), txns[0].TransactionNumber, "the failed attempt must not burn a number")
}

func TestLedger_CommissionReceiptNeedsCommissionAccount(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewRepositoryProvider(memory.NewStore())
	svc := services.NewServiceContainer(nil, repos)
	now := time.Now()
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "till", Name: "Till", AccountType: domain.Cash, AuditFields: domain.NewAuditFields(tester, now)}))
	require.NoError(t, repos.AccountRepo.SaveAccount(ctx, domain.Account{AccountID: "sales", Name: "Sales", AccountType: domain.Income, AuditFields: domain.NewAuditFields(tester, now)}))

	_, err := svc.Ledger.PostTransaction(ctx, dto.PostTransactionRequest{
		Type:             domain.Receipt,
		DebitAccountID:   "till",
		CreditAccountID:  "sales",
		Amount:           dec(100),
		CommissionAmount: dec(10),
		Date:             now,
	}, tester)
	require.ErrorIs(t, err, apperrors.ErrConflict)

	txns, err := repos.TransactionRepo.ListTransactions(ctx, portsrepo.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txns, "the receipt rolls back with its commission payment")
}

func ptr[T any](v T) *T { return &v }
