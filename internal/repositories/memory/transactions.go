package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	"github.com/munna98/cashdesk/internal/utils/pagination"
)

func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction %s", transactionID)
	}
	return &txn, nil
}

func (s *Store) FindCommissionPayment(_ context.Context, receiptID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, txn := range s.transactions {
		if txn.CommissionFor != nil && *txn.CommissionFor == receiptID {
			return &txn, nil
		}
	}
	return nil, apperrors.NewNotFoundError("commission payment for receipt %s", receiptID)
}

func (s *Store) FindCancellation(_ context.Context, paymentID string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, txn := range s.transactions {
		if txn.ReversalOf != nil && *txn.ReversalOf == paymentID {
			return &txn, nil
		}
	}
	return nil, apperrors.NewNotFoundError("cancellation of payment %s", paymentID)
}

func (s *Store) ListTransactions(_ context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtered(filter), nil
}

func (s *Store) ListTransactionsPage(_ context.Context, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("%v", err)
		}
		cursor = &c
	}

	s.mu.RLock()
	all := s.filtered(filter)
	s.mu.RUnlock()

	page := make([]domain.Transaction, 0, limit)
	hasMore := false
	for _, txn := range all {
		if cursor != nil && !cursor.After(txn.Date, txn.CreatedAt, txn.TransactionID) {
			continue
		}
		if len(page) == limit {
			hasMore = true
			break
		}
		page = append(page, txn)
	}

	var next *string
	if hasMore && len(page) > 0 {
		last := page[len(page)-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt, last.TransactionID)
		next = &token
	}
	return page, next, nil
}

func (s *Store) CountTransactionsByAccount(_ context.Context, accountID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, txn := range s.transactions {
		if txn.Touches(accountID) {
			count++
		}
	}
	return count, nil
}

func (s *Store) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	return s.write(ctx, func() error {
		if _, exists := s.transactions[txn.TransactionID]; exists {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionID)
		}
		if err := s.checkTransaction(txn); err != nil {
			return err
		}
		s.transactions[txn.TransactionID] = txn
		return nil
	})
}

func (s *Store) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	return s.write(ctx, func() error {
		existing, ok := s.transactions[txn.TransactionID]
		if !ok {
			return apperrors.NewNotFoundError("transaction %s", txn.TransactionID)
		}
		if err := s.checkTransaction(txn); err != nil {
			return err
		}
		txn.TransactionNumber = existing.TransactionNumber
		txn.Type = existing.Type
		txn.CreatedAt = existing.CreatedAt
		txn.CreatedBy = existing.CreatedBy
		s.transactions[txn.TransactionID] = txn
		return nil
	})
}

func (s *Store) DeleteTransaction(ctx context.Context, transactionID string) error {
	return s.write(ctx, func() error {
		if _, ok := s.transactions[transactionID]; !ok {
			return apperrors.NewNotFoundError("transaction %s", transactionID)
		}
		for _, other := range s.transactions {
			if other.CommissionFor != nil && *other.CommissionFor == transactionID {
				return apperrors.NewConflictError("transaction %s still owns commission payment %s", transactionID, other.TransactionNumber)
			}
		}
		delete(s.transactions, transactionID)
		return nil
	})
}

// checkTransaction mirrors the foreign key and unique constraints of the SQL schema.
func (s *Store) checkTransaction(txn domain.Transaction) error {
	for _, id := range []string{txn.DebitAccountID, txn.CreditAccountID} {
		if _, ok := s.accounts[id]; !ok {
			return apperrors.NewNotFoundError("account %s", id)
		}
	}
	for _, other := range s.transactions {
		if other.TransactionID == txn.TransactionID {
			continue
		}
		if other.TransactionNumber == txn.TransactionNumber {
			return fmt.Errorf("%w: transaction number %s", apperrors.ErrDuplicate, txn.TransactionNumber)
		}
		if txn.CommissionFor != nil && other.CommissionFor != nil && *other.CommissionFor == *txn.CommissionFor {
			return fmt.Errorf("%w: commission payment for receipt %s", apperrors.ErrDuplicate, *txn.CommissionFor)
		}
		if txn.ReversalOf != nil && other.ReversalOf != nil && *other.ReversalOf == *txn.ReversalOf {
			return fmt.Errorf("%w: cancellation of payment %s", apperrors.ErrDuplicate, *txn.ReversalOf)
		}
	}
	return nil
}

// filtered returns matching postings in ledger order. Callers hold s.mu.
func (s *Store) filtered(filter portsrepo.TransactionFilter) []domain.Transaction {
	res := []domain.Transaction{}
	for _, txn := range s.transactions {
		if len(filter.AccountIDs) > 0 &&
			!slices.Contains(filter.AccountIDs, txn.DebitAccountID) &&
			!slices.Contains(filter.AccountIDs, txn.CreditAccountID) {
			continue
		}
		if filter.FromDate != nil && txn.Date.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && txn.Date.After(*filter.ToDate) {
			continue
		}
		if len(filter.Types) > 0 && !slices.Contains(filter.Types, txn.Type) {
			continue
		}
		res = append(res, txn)
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.TransactionID < b.TransactionID
	})
	return res
}
