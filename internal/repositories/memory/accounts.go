package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
)

func (s *Store) FindAccountByID(_ context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("account %s", accountID)
	}
	return &acc, nil
}

func (s *Store) FindAccountsByIDs(_ context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if acc, ok := s.accounts[id]; ok {
			res[id] = acc
		}
	}
	return res, nil
}

func (s *Store) FindAccountsByType(_ context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := []domain.Account{}
	for _, acc := range s.accounts {
		if acc.AccountType == accountType {
			res = append(res, acc)
		}
	}
	sortAccounts(res)
	return res, nil
}

func (s *Store) FindAccountByLinkedEntity(_ context.Context, kind domain.EntityKind, entityID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if acc.LinkedEntityType == kind && acc.LinkedEntityID == entityID {
			return &acc, nil
		}
	}
	return nil, apperrors.NewNotFoundError("account for %s %s", kind, entityID)
}

func (s *Store) FindAccountByWellKnown(_ context.Context, key domain.WellKnownAccount) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if key == domain.WellKnownNone {
		return nil, apperrors.NewNotFoundError("well-known account with empty key")
	}
	for _, acc := range s.accounts {
		if acc.WellKnown == key {
			return &acc, nil
		}
	}
	return nil, apperrors.NewNotFoundError("%s account", key)
}

func (s *Store) ListAccounts(_ context.Context, limit int, offset int) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		all = append(all, acc)
	}
	sortAccounts(all)
	if offset >= len(all) {
		return []domain.Account{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.write(ctx, func() error {
		if _, exists := s.accounts[account.AccountID]; exists {
			return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.AccountID)
		}
		if account.WellKnown != domain.WellKnownNone {
			for _, other := range s.accounts {
				if other.WellKnown == account.WellKnown {
					return fmt.Errorf("%w: %s account", apperrors.ErrDuplicate, account.WellKnown)
				}
			}
		}
		s.accounts[account.AccountID] = account
		return nil
	})
}

func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	return s.write(ctx, func() error {
		existing, ok := s.accounts[account.AccountID]
		if !ok {
			return apperrors.NewNotFoundError("account %s", account.AccountID)
		}
		existing.Name = account.Name
		existing.OpeningBalance = account.OpeningBalance
		existing.LastUpdatedAt = account.LastUpdatedAt
		existing.LastUpdatedBy = account.LastUpdatedBy
		s.accounts[account.AccountID] = existing
		return nil
	})
}

func (s *Store) DeleteAccount(ctx context.Context, accountID string) error {
	return s.write(ctx, func() error {
		if _, ok := s.accounts[accountID]; !ok {
			return apperrors.NewNotFoundError("account %s", accountID)
		}
		for _, txn := range s.transactions {
			if txn.Touches(accountID) {
				return apperrors.NewConflictError("account %s is referenced by transaction %s", accountID, txn.TransactionNumber)
			}
		}
		for _, e := range s.entities {
			if e.AccountID == accountID {
				return apperrors.NewConflictError("account %s is linked to %s %s", accountID, e.Kind, e.EntityID)
			}
		}
		delete(s.accounts, accountID)
		return nil
	})
}

func sortAccounts(accounts []domain.Account) {
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Name != accounts[j].Name {
			return accounts[i].Name < accounts[j].Name
		}
		return accounts[i].AccountID < accounts[j].AccountID
	})
}
