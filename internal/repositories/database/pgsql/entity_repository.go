package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	"github.com/munna98/cashdesk/internal/models"
	"github.com/munna98/cashdesk/internal/utils/mapping"
)

const entityColumns = `entity_id, kind, name, mobile, email, address, comm_percent, opening_balance,
	account_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxEntityRepository struct {
	BaseRepository
}

func newPgxEntityRepository(pool *pgxpool.Pool) portsrepo.EntityRepositoryFacade {
	return &PgxEntityRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.EntityRepositoryFacade = (*PgxEntityRepository)(nil)

// FindEntityByID retrieves an agent, recipient or employee by ID.
func (r *PgxEntityRepository) FindEntityByID(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.Entity, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE kind = $1 AND entity_id = $2;`, string(kind), entityID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+string(kind)+" "+entityID, err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Entity])
	if err != nil {
		return nil, notFoundOr(err, "%s %s", kind, entityID)
	}
	e := mapping.ToDomainEntity(m)
	return &e, nil
}

func (r *PgxEntityRepository) ListEntities(ctx context.Context, kind domain.EntityKind, limit int, offset int) ([]domain.Entity, error) {
	rows, err := r.db(ctx).Query(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE kind = $1 ORDER BY name, entity_id LIMIT $2 OFFSET $3;`,
		string(kind), limit, offset)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list "+string(kind)+"s", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Entity])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan "+string(kind)+"s", err)
	}
	res := make([]domain.Entity, len(ms))
	for i, m := range ms {
		res[i] = mapping.ToDomainEntity(m)
	}
	return res, nil
}

// SaveEntity inserts a new entity. Its account must already exist.
func (r *PgxEntityRepository) SaveEntity(ctx context.Context, entity domain.Entity) error {
	m := mapping.ToModelEntity(entity)
	query := `
		INSERT INTO entities (` + entityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.EntityID,
		m.Kind,
		m.Name,
		m.Mobile,
		m.Email,
		m.Address,
		m.CommPercent,
		m.OpeningBalance,
		m.AccountID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save %s %s", m.Kind, m.EntityID)
	}
	return nil
}

func (r *PgxEntityRepository) UpdateEntity(ctx context.Context, entity domain.Entity) error {
	m := mapping.ToModelEntity(entity)
	query := `
		UPDATE entities
		SET name = $3, mobile = $4, email = $5, address = $6, comm_percent = $7, opening_balance = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE kind = $1 AND entity_id = $2;
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		m.Kind, m.EntityID, m.Name, m.Mobile, m.Email, m.Address, m.CommPercent, m.OpeningBalance,
		m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "update %s %s", m.Kind, m.EntityID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("%s %s", m.Kind, m.EntityID)
	}
	return nil
}

func (r *PgxEntityRepository) DeleteEntity(ctx context.Context, kind domain.EntityKind, entityID string) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM entities WHERE kind = $1 AND entity_id = $2;`, string(kind), entityID)
	if err != nil {
		return mapPgError(err, "delete %s %s", kind, entityID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("%s %s", kind, entityID)
	}
	return nil
}
