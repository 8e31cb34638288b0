package services

import (
	"context"
	"errors"
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

var maxCommPercent = decimal.NewFromInt(100)

// entityService implements the EntitySvcFacade interface
type entityService struct {
	BaseService
	entityRepo    portsrepo.EntityRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
	txnRepo       portsrepo.TransactionReader
	txManager     portsrepo.TransactionManager
	openingPoster portssvc.OpeningBalancePoster
}

// NewEntityService creates the lifecycle manager for agents, recipients and employees.
func NewEntityService(
	entityRepo portsrepo.EntityRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	txnRepo portsrepo.TransactionReader,
	txManager portsrepo.TransactionManager,
	openingPoster portssvc.OpeningBalancePoster,
) portssvc.EntitySvcFacade {
	return &entityService{
		entityRepo:    entityRepo,
		accountRepo:   accountRepo,
		txnRepo:       txnRepo,
		txManager:     txManager,
		openingPoster: openingPoster,
	}
}

var _ portssvc.EntitySvcFacade = (*entityService)(nil)

func (s *entityService) GetEntity(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.Entity, error) {
	if !kind.IsValid() {
		return nil, apperrors.NewValidationError("unknown entity kind %q", kind)
	}
	entity, err := s.entityRepo.FindEntityByID(ctx, kind, entityID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find entity",
				slog.String("kind", string(kind)),
				slog.String("entity_id", entityID))
		}
		return nil, err
	}
	return entity, nil
}

func (s *entityService) ListEntities(ctx context.Context, kind domain.EntityKind, params dto.ListEntitiesParams) ([]domain.Entity, error) {
	if !kind.IsValid() {
		return nil, apperrors.NewValidationError("unknown entity kind %q", kind)
	}
	limit, offset := params.Limit, params.Offset
	if limit <= 0 {
		limit = defaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	entities, err := s.entityRepo.ListEntities(ctx, kind, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entities", slog.String("kind", string(kind)))
		return nil, err
	}
	if entities == nil {
		return []domain.Entity{}, nil
	}
	return entities, nil
}

func (s *entityService) CreateEntity(ctx context.Context, kind domain.EntityKind, req dto.CreateEntityRequest, userID string) (*domain.EntityWithAccount, error) {
	if !kind.IsValid() {
		return nil, apperrors.NewValidationError("unknown entity kind %q", kind)
	}
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("%s name is required", kind)
	}
	if err := validateCommPercent(kind, req.CommPercent); err != nil {
		return nil, err
	}
	if err := validateOpeningBalance(kind, req.OpeningBalance); err != nil {
		return nil, err
	}

	now := time.Now()
	audit := domain.NewAuditFields(userID, now)
	entityID := uuid.NewString()
	account := domain.Account{
		AccountID:        uuid.NewString(),
		Name:             name,
		AccountType:      kind.AccountType(),
		LinkedEntityType: kind,
		LinkedEntityID:   entityID,
		OpeningBalance:   req.OpeningBalance,
		AuditFields:      audit,
	}
	entity := domain.Entity{
		EntityID:       entityID,
		Kind:           kind,
		Name:           name,
		Mobile:         strings.TrimSpace(req.Mobile),
		Email:          strings.TrimSpace(req.Email),
		Address:        strings.TrimSpace(req.Address),
		CommPercent:    req.CommPercent,
		OpeningBalance: req.OpeningBalance,
		AccountID:      account.AccountID,
		AuditFields:    audit,
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
			return err
		}
		if err := s.entityRepo.SaveEntity(ctx, entity); err != nil {
			return err
		}
		_, err := s.openingPoster.PostOpeningBalance(ctx, account, account.OpeningBalance, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create entity",
			slog.String("kind", string(kind)),
			slog.String("entity_id", entityID))
		return nil, err
	}

	s.LogInfo(ctx, "Entity created",
		slog.String("kind", string(kind)),
		slog.String("entity_id", entityID),
		slog.String("account_id", account.AccountID))
	account.Balance = accounting.SignedOpening(account)
	return &domain.EntityWithAccount{Entity: entity, Account: account}, nil
}

func (s *entityService) UpdateEntity(ctx context.Context, kind domain.EntityKind, entityID string, req dto.UpdateEntityRequest, userID string) (*domain.Entity, error) {
	if !kind.IsValid() {
		return nil, apperrors.NewValidationError("unknown entity kind %q", kind)
	}
	if err := s.ValidateRequest(req); err != nil {
		return nil, err
	}

	var updated domain.Entity
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		entity, err := s.entityRepo.FindEntityByID(ctx, kind, entityID)
		if err != nil {
			return err
		}
		account, err := s.accountRepo.FindAccountByID(ctx, entity.AccountID)
		if err != nil {
			return err
		}

		now := time.Now()
		accountChanged := false

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return apperrors.NewValidationError("%s name cannot be empty", kind)
			}
			if name != entity.Name {
				entity.Name = name
				account.Name = name
				accountChanged = true
			}
		}
		if req.Mobile != nil {
			entity.Mobile = strings.TrimSpace(*req.Mobile)
		}
		if req.Email != nil {
			entity.Email = strings.TrimSpace(*req.Email)
		}
		if req.Address != nil {
			entity.Address = strings.TrimSpace(*req.Address)
		}
		if req.CommPercent != nil {
			if err := validateCommPercent(kind, *req.CommPercent); err != nil {
				return err
			}
			entity.CommPercent = *req.CommPercent
		}
		if req.OpeningBalance != nil {
			if err := validateOpeningBalance(kind, *req.OpeningBalance); err != nil {
				return err
			}
			delta := req.OpeningBalance.Sub(account.OpeningBalance)
			if !delta.IsZero() {
				if _, err := s.openingPoster.PostOpeningBalance(ctx, *account, delta, userID); err != nil {
					return err
				}
				account.OpeningBalance = *req.OpeningBalance
				accountChanged = true
			}
			entity.OpeningBalance = account.OpeningBalance
		}

		entity.LastUpdatedAt = now
		entity.LastUpdatedBy = userID
		if err := s.entityRepo.UpdateEntity(ctx, *entity); err != nil {
			return err
		}
		if accountChanged {
			account.LastUpdatedAt = now
			account.LastUpdatedBy = userID
			if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
				return err
			}
		}
		updated = *entity
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update entity",
			slog.String("kind", string(kind)),
			slog.String("entity_id", entityID))
		return nil, err
	}

	s.LogInfo(ctx, "Entity updated",
		slog.String("kind", string(kind)),
		slog.String("entity_id", entityID))
	return &updated, nil
}

func (s *entityService) DeleteEntity(ctx context.Context, kind domain.EntityKind, entityID string, userID string) error {
	if !kind.IsValid() {
		return apperrors.NewValidationError("unknown entity kind %q", kind)
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		entity, err := s.entityRepo.FindEntityByID(ctx, kind, entityID)
		if err != nil {
			return err
		}
		count, err := s.txnRepo.CountTransactionsByAccount(ctx, entity.AccountID)
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.NewConflictError("%s %q has %d transactions and cannot be deleted", kind, entity.Name, count)
		}
		if err := s.entityRepo.DeleteEntity(ctx, kind, entityID); err != nil {
			return err
		}
		return s.accountRepo.DeleteAccount(ctx, entity.AccountID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete entity",
			slog.String("kind", string(kind)),
			slog.String("entity_id", entityID))
		return err
	}

	s.LogInfo(ctx, "Entity deleted",
		slog.String("kind", string(kind)),
		slog.String("entity_id", entityID),
		slog.String("user_id", userID))
	return nil
}

func validateCommPercent(kind domain.EntityKind, pct decimal.Decimal) error {
	if kind != domain.KindAgent {
		if !pct.IsZero() {
			return apperrors.NewValidationError("only agents carry a commission percentage")
		}
		return nil
	}
	if pct.IsNegative() || pct.GreaterThan(maxCommPercent) {
		return apperrors.NewValidationError("commission percentage must be between 0 and 100, got %s", pct.String())
	}
	return nil
}

func validateOpeningBalance(kind domain.EntityKind, opening decimal.Decimal) error {
	if !kind.CarriesOpeningBalance() && !opening.IsZero() {
		return apperrors.NewValidationError("%s accounts cannot carry an opening balance", kind)
	}
	return nil
}
