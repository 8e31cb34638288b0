package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
)

func (s *Store) FindEntityByID(_ context.Context, kind domain.EntityKind, entityID string) (*domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entities[entityID]
	if !ok || e.Kind != kind {
		return nil, apperrors.NewNotFoundError("%s %s", kind, entityID)
	}
	return &e, nil
}

func (s *Store) ListEntities(_ context.Context, kind domain.EntityKind, limit int, offset int) ([]domain.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := []domain.Entity{}
	for _, e := range s.entities {
		if e.Kind == kind {
			all = append(all, e)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return all[i].EntityID < all[j].EntityID
	})
	if offset >= len(all) {
		return []domain.Entity{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (s *Store) SaveEntity(ctx context.Context, entity domain.Entity) error {
	return s.write(ctx, func() error {
		if _, exists := s.entities[entity.EntityID]; exists {
			return fmt.Errorf("%w: %s %s", apperrors.ErrDuplicate, entity.Kind, entity.EntityID)
		}
		if _, ok := s.accounts[entity.AccountID]; !ok {
			return apperrors.NewNotFoundError("account %s", entity.AccountID)
		}
		s.entities[entity.EntityID] = entity
		return nil
	})
}

func (s *Store) UpdateEntity(ctx context.Context, entity domain.Entity) error {
	return s.write(ctx, func() error {
		existing, ok := s.entities[entity.EntityID]
		if !ok || existing.Kind != entity.Kind {
			return apperrors.NewNotFoundError("%s %s", entity.Kind, entity.EntityID)
		}
		entity.AccountID = existing.AccountID
		entity.CreatedAt = existing.CreatedAt
		entity.CreatedBy = existing.CreatedBy
		s.entities[entity.EntityID] = entity
		return nil
	})
}

func (s *Store) DeleteEntity(ctx context.Context, kind domain.EntityKind, entityID string) error {
	return s.write(ctx, func() error {
		existing, ok := s.entities[entityID]
		if !ok || existing.Kind != kind {
			return apperrors.NewNotFoundError("%s %s", kind, entityID)
		}
		delete(s.entities, entityID)
		return nil
	})
}
