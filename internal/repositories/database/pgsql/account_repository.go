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

const accountColumns = `account_id, name, account_type, linked_entity_type, linked_entity_id, well_known,
	opening_balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func (r *PgxAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query accounts", err)
	}
	modelAccounts, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan accounts", err)
	}
	return mapping.ToDomainAccountSlice(modelAccounts), nil
}

func (r *PgxAccountRepository) queryAccount(ctx context.Context, what string, query string, args ...any) (*domain.Account, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+what, err)
	}
	modelAcc, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, notFoundOr(err, "%s", what)
	}
	acc := mapping.ToDomainAccount(modelAcc)
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.queryAccount(ctx, "account "+accountID,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = $1;`, accountID)
}

// FindAccountsByIDs retrieves the accounts that exist among the given IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	res := make(map[string]domain.Account, len(accountIDs))
	if len(accountIDs) == 0 {
		return res, nil
	}
	accounts, err := r.queryAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1);`, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		res[acc.AccountID] = acc
	}
	return res, nil
}

func (r *PgxAccountRepository) FindAccountsByType(ctx context.Context, accountType domain.AccountType) ([]domain.Account, error) {
	return r.queryAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE account_type = $1 ORDER BY name, account_id;`, string(accountType))
}

func (r *PgxAccountRepository) FindAccountByLinkedEntity(ctx context.Context, kind domain.EntityKind, entityID string) (*domain.Account, error) {
	return r.queryAccount(ctx, "account for "+string(kind)+" "+entityID,
		`SELECT `+accountColumns+` FROM accounts WHERE linked_entity_type = $1 AND linked_entity_id = $2;`,
		string(kind), entityID)
}

func (r *PgxAccountRepository) FindAccountByWellKnown(ctx context.Context, key domain.WellKnownAccount) (*domain.Account, error) {
	if key == domain.WellKnownNone {
		return nil, apperrors.NewNotFoundError("well-known account with empty key")
	}
	return r.queryAccount(ctx, string(key)+" account",
		`SELECT `+accountColumns+` FROM accounts WHERE well_known = $1;`, string(key))
}

// ListAccounts retrieves a page of accounts ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	return r.queryAccounts(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY name, account_id LIMIT $1 OFFSET $2;`, limit, offset)
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.AccountType,
		m.LinkedEntityType,
		m.LinkedEntityID,
		m.WellKnown,
		m.OpeningBalance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save account %s", m.AccountID)
	}
	return nil
}

// UpdateAccount updates the mutable fields of an account.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		UPDATE accounts
		SET name = $2, opening_balance = $3, last_updated_at = $4, last_updated_by = $5
		WHERE account_id = $1;
	`
	tag, err := r.db(ctx).Exec(ctx, query, m.AccountID, m.Name, m.OpeningBalance, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "update account %s", m.AccountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account %s", m.AccountID)
	}
	return nil
}

// DeleteAccount removes an account. Foreign keys from transactions and entities block the delete.
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, accountID string) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		return mapPgError(err, "delete account %s", accountID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account %s", accountID)
	}
	return nil
}
