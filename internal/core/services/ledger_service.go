package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/dto"
	"github.com/munna98/cashdesk/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionRepositoryFacade
	counters    portsrepo.SequenceGenerator
	txManager   portsrepo.TransactionManager
	now         func() time.Time
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerClock overrides the clock used for audit fields and number years.
func WithLedgerClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates the transaction ledger.
func NewLedgerService(
	accountRepo portsrepo.AccountReader,
	txnRepo portsrepo.TransactionRepositoryFacade,
	counters portsrepo.SequenceGenerator,
	txManager portsrepo.TransactionManager,
	options ...LedgerServiceOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		counters:    counters,
		txManager:   txManager,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	filter := portsrepo.TransactionFilter{}
	if params.Type != "" {
		t := domain.TransactionType(params.Type)
		if !t.IsValid() {
			return nil, apperrors.NewValidationError("unknown transaction type %q", params.Type)
		}
		filter.Types = []domain.TransactionType{t}
	}
	if params.AccountID != "" {
		filter.AccountIDs = []string{params.AccountID}
	}
	from, err := dto.ParseOptionalDate(params.FromDate)
	if err != nil {
		return nil, apperrors.NewValidationError("%v", err)
	}
	to, err := dto.ParseOptionalDate(params.ToDate)
	if err != nil {
		return nil, apperrors.NewValidationError("%v", err)
	}
	filter.FromDate, filter.ToDate = from, to

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}

	txns, nextToken, err := s.txnRepo.ListTransactionsPage(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.Int("limit", limit))
		return nil, err
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

func (s *ledgerService) PostTransaction(ctx context.Context, req dto.PostTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	txn := domain.Transaction{
		Type:             req.Type,
		DebitAccountID:   req.DebitAccountID,
		CreditAccountID:  req.CreditAccountID,
		Amount:           req.Amount,
		CommissionAmount: req.CommissionAmount,
		Date:             domain.BusinessDate(req.Date),
		Note:             strings.TrimSpace(req.Note),
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		accounts, err := s.loadPostingAccounts(ctx, txn)
		if err != nil {
			return err
		}
		if txn.Type == domain.JournalEntry &&
			accounts[txn.DebitAccountID].AccountType == domain.AgentAcc &&
			accounts[txn.CreditAccountID].WellKnown == domain.WellKnownCommission {
			txn.IsCommission = true
		}

		if err := s.append(ctx, &txn, userID); err != nil {
			return err
		}
		if txn.Type == domain.Receipt && txn.CommissionAmount.IsPositive() {
			if _, err := s.createCommissionPayment(ctx, txn, userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post transaction",
			slog.String("type", string(req.Type)),
			slog.String("debit_account_id", req.DebitAccountID),
			slog.String("credit_account_id", req.CreditAccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber))
	return &txn, nil
}

func (s *ledgerService) UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, userID string) (*domain.Transaction, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	var updated domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if existing.Type == domain.JournalEntry {
			return apperrors.NewValidationError("journal entries cannot be edited, delete and post again")
		}
		if existing.IsLedgerManaged() {
			return apperrors.NewConflictError("%s is maintained by the ledger and cannot be edited directly", existing.TransactionNumber)
		}
		if existing.IsCancellation {
			return apperrors.NewConflictError("cancellation %s cannot be edited", existing.TransactionNumber)
		}
		if existing.Type == domain.Payment {
			if err := s.ensureNotCancelled(ctx, *existing); err != nil {
				return err
			}
		}

		updated = *existing
		if req.Amount != nil {
			updated.Amount = *req.Amount
		}
		if req.CommissionAmount != nil {
			updated.CommissionAmount = *req.CommissionAmount
		}
		if req.DebitAccountID != nil {
			updated.DebitAccountID = *req.DebitAccountID
		}
		if req.CreditAccountID != nil {
			updated.CreditAccountID = *req.CreditAccountID
		}
		if req.Date != nil {
			updated.Date = domain.BusinessDate(*req.Date)
		}
		if req.Note != nil {
			updated.Note = strings.TrimSpace(*req.Note)
		}

		if _, err := s.loadPostingAccounts(ctx, updated); err != nil {
			return err
		}

		updated.LastUpdatedAt = s.now()
		updated.LastUpdatedBy = userID
		if err := s.txnRepo.UpdateTransaction(ctx, updated); err != nil {
			return err
		}

		if updated.Type == domain.Receipt {
			return s.reconcileCommission(ctx, updated, userID)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction updated", slog.String("transaction_id", transactionID))
	return &updated, nil
}

func (s *ledgerService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
		if err != nil {
			return err
		}
		if existing.IsLedgerManaged() {
			return apperrors.NewConflictError("%s is maintained by the ledger and cannot be deleted directly", existing.TransactionNumber)
		}

		switch existing.Type {
		case domain.Payment:
			if err := s.ensureNotCancelled(ctx, *existing); err != nil {
				return err
			}
		case domain.Receipt:
			link, err := s.findCommissionPayment(ctx, existing.TransactionID)
			if err != nil {
				return err
			}
			if link != nil {
				if err := s.txnRepo.DeleteTransaction(ctx, link.TransactionID); err != nil {
					return err
				}
			}
		}

		return s.txnRepo.DeleteTransaction(ctx, existing.TransactionID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return err
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.String("user_id", userID))
	return nil
}

func (s *ledgerService) CancelPayment(ctx context.Context, paymentID string, req dto.CancelPaymentRequest, userID string) (*domain.Transaction, error) {
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	var reversal domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.txnRepo.FindTransactionByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment.Type != domain.Payment {
			return apperrors.NewValidationError("only payments can be cancelled, %s is a %s", payment.TransactionNumber, payment.Type)
		}
		if payment.IsCancellation {
			return apperrors.NewValidationError("%s is itself a cancellation", payment.TransactionNumber)
		}
		if payment.IsLedgerManaged() {
			return apperrors.NewConflictError("%s is maintained by the ledger and cannot be cancelled directly", payment.TransactionNumber)
		}
		if err := s.ensureNotCancelled(ctx, *payment); err != nil {
			return err
		}

		note := fmt.Sprintf("%s %s", domain.CancelledNotePrefix, payment.TransactionNumber)
		if extra := strings.TrimSpace(req.Note); extra != "" {
			note = note + ": " + extra
		}
		reversalOf := payment.TransactionID
		reversal = domain.Transaction{
			Type:            domain.Payment,
			DebitAccountID:  payment.CreditAccountID,
			CreditAccountID: payment.DebitAccountID,
			Amount:          payment.Amount,
			Date:            domain.BusinessDate(req.Date),
			Note:            note,
			IsCancellation:  true,
			ReversalOf:      &reversalOf,
		}
		return s.append(ctx, &reversal, userID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to cancel payment", slog.String("payment_id", paymentID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment cancelled",
		slog.String("payment_id", paymentID),
		slog.String("cancellation_id", reversal.TransactionID))
	return &reversal, nil
}

func (s *ledgerService) PostOpeningBalance(ctx context.Context, account domain.Account, delta decimal.Decimal, userID string) (*domain.Transaction, error) {
	if delta.IsZero() {
		return nil, nil
	}

	var journal domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		openingAccount, err := s.accountRepo.FindAccountByWellKnown(ctx, domain.WellKnownOpeningBalance)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return apperrors.NewConflictError("%s account does not exist, create it before posting opening balances", domain.OpeningBalanceAccountName)
			}
			return err
		}
		if openingAccount.AccountID == account.AccountID {
			return apperrors.NewValidationError("the %s account cannot carry an opening balance", domain.OpeningBalanceAccountName)
		}

		debit, credit, amount, ok := accounting.OpeningJournalSides(account, openingAccount.AccountID, delta)
		if !ok {
			return nil
		}
		forAccount := account.AccountID
		journal = domain.Transaction{
			Type:              domain.JournalEntry,
			DebitAccountID:    debit,
			CreditAccountID:   credit,
			Amount:            amount,
			Date:              domain.BusinessDate(s.now()),
			Note:              fmt.Sprintf("%s %s", domain.OpeningBalanceNotePrefix, account.Name),
			IsOpeningBalance:  true,
			OpeningBalanceFor: &forAccount,
		}
		return s.append(ctx, &journal, userID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post opening balance", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Opening balance posted",
		slog.String("account_id", account.AccountID),
		slog.String("transaction_number", journal.TransactionNumber))
	return &journal, nil
}

// append validates, numbers and stores a posting. It must run inside a storage
// transaction so that a failed save releases the issued number.
func (s *ledgerService) append(ctx context.Context, txn *domain.Transaction, userID string) error {
	if err := accounting.ValidatePosting(*txn); err != nil {
		return apperrors.NewValidationError("%v", err)
	}

	now := s.now()
	seq, err := s.counters.NextSequence(ctx, txn.Type.CounterName())
	if err != nil {
		return fmt.Errorf("failed to issue %s number: %w", txn.Type, err)
	}
	number, err := domain.FormatTransactionNumber(txn.Type, now.UTC().Year(), seq)
	if err != nil {
		return apperrors.NewValidationError("%v", err)
	}

	txn.TransactionID = uuid.NewString()
	txn.TransactionNumber = number
	txn.AuditFields = domain.NewAuditFields(userID, now)

	return s.txnRepo.SaveTransaction(ctx, *txn)
}

// loadPostingAccounts validates the posting and checks both accounts exist.
func (s *ledgerService) loadPostingAccounts(ctx context.Context, txn domain.Transaction) (map[string]domain.Account, error) {
	if err := accounting.ValidatePosting(txn); err != nil {
		return nil, apperrors.NewValidationError("%v", err)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{txn.DebitAccountID, txn.CreditAccountID})
	if err != nil {
		return nil, err
	}
	for _, id := range []string{txn.DebitAccountID, txn.CreditAccountID} {
		if _, ok := accounts[id]; !ok {
			return nil, apperrors.NewNotFoundError("account %s", id)
		}
	}
	return accounts, nil
}

// createCommissionPayment moves the receipt's commission out of the account that
// received the cash and into the Commission account.
func (s *ledgerService) createCommissionPayment(ctx context.Context, receipt domain.Transaction, userID string) (*domain.Transaction, error) {
	commission, err := s.commissionAccount(ctx)
	if err != nil {
		return nil, err
	}
	if commission.AccountID == receipt.DebitAccountID {
		return nil, apperrors.NewValidationError("a receipt into the %s account cannot carry commission", commission.Name)
	}

	receiptID := receipt.TransactionID
	payment := domain.Transaction{
		Type:            domain.Payment,
		DebitAccountID:  commission.AccountID,
		CreditAccountID: receipt.DebitAccountID,
		Amount:          receipt.CommissionAmount,
		Date:            receipt.Date,
		Note:            commissionNote(receipt),
		IsCommission:    true,
		CommissionFor:   &receiptID,
	}
	if err := s.append(ctx, &payment, userID); err != nil {
		return nil, err
	}
	return &payment, nil
}

// reconcileCommission keeps the receipt's commission payment in step with the receipt.
func (s *ledgerService) reconcileCommission(ctx context.Context, receipt domain.Transaction, userID string) error {
	link, err := s.findCommissionPayment(ctx, receipt.TransactionID)
	if err != nil {
		return err
	}

	switch {
	case link != nil && receipt.CommissionAmount.IsPositive():
		if link.DebitAccountID == receipt.DebitAccountID {
			return apperrors.NewValidationError("a receipt into the commission account cannot carry commission")
		}
		link.Amount = receipt.CommissionAmount
		link.Date = receipt.Date
		link.CreditAccountID = receipt.DebitAccountID
		link.Note = commissionNote(receipt)
		link.LastUpdatedAt = s.now()
		link.LastUpdatedBy = userID
		return s.txnRepo.UpdateTransaction(ctx, *link)
	case link != nil:
		return s.txnRepo.DeleteTransaction(ctx, link.TransactionID)
	case receipt.CommissionAmount.IsPositive():
		_, err := s.createCommissionPayment(ctx, receipt, userID)
		return err
	}
	return nil
}

func (s *ledgerService) findCommissionPayment(ctx context.Context, receiptID string) (*domain.Transaction, error) {
	link, err := s.txnRepo.FindCommissionPayment(ctx, receiptID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return link, nil
}

func (s *ledgerService) ensureNotCancelled(ctx context.Context, payment domain.Transaction) error {
	cancellation, err := s.txnRepo.FindCancellation(ctx, payment.TransactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	return apperrors.NewConflictError("%s was cancelled by %s", payment.TransactionNumber, cancellation.TransactionNumber)
}

func (s *ledgerService) commissionAccount(ctx context.Context) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByWellKnown(ctx, domain.WellKnownCommission)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewConflictError("%s account does not exist, run bootstrap first", domain.CommissionAccountName)
		}
		return nil, err
	}
	return account, nil
}

func commissionNote(receipt domain.Transaction) string {
	return fmt.Sprintf("%s %s", domain.CommissionNotePrefix, receipt.TransactionNumber)
}
