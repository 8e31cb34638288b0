package pgsql

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/munna98/cashdesk/internal/apperrors"
	"github.com/munna98/cashdesk/internal/core/domain"
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	"github.com/munna98/cashdesk/internal/models"
	"github.com/munna98/cashdesk/internal/utils/mapping"
	"github.com/munna98/cashdesk/internal/utils/pagination"
)

const transactionColumns = `transaction_id, transaction_number, transaction_type, debit_account_id, credit_account_id,
	amount, commission_amount, transaction_date, note, is_opening_balance, opening_balance_for,
	is_cancellation, reversal_of, is_commission, commission_for,
	created_at, created_by, last_updated_at, last_updated_by`

const ledgerOrder = `ORDER BY transaction_date, created_at, transaction_id`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// whereClause accumulates filter predicates and their positional arguments.
type whereClause struct {
	conds []string
	args  []any
}

func (w *whereClause) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(w.args))))
}

func (w *whereClause) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.conds, " AND ")
}

func filterClause(filter portsrepo.TransactionFilter) *whereClause {
	w := &whereClause{}
	if len(filter.AccountIDs) > 0 {
		w.add("(debit_account_id = ANY(?) OR credit_account_id = ANY(?))", filter.AccountIDs)
	}
	if filter.FromDate != nil {
		w.add("transaction_date >= ?", domain.BusinessDate(*filter.FromDate))
	}
	if filter.ToDate != nil {
		w.add("transaction_date <= ?", domain.BusinessDate(*filter.ToDate))
	}
	if len(filter.Types) > 0 {
		types := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			types[i] = string(t)
		}
		w.add("transaction_type = ANY(?)", types)
	}
	return w
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to scan transactions", err)
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}

func (r *PgxTransactionRepository) queryTransaction(ctx context.Context, what string, query string, args ...any) (*domain.Transaction, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query "+what, err)
	}
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		return nil, notFoundOr(err, "%s", what)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return r.queryTransaction(ctx, "transaction "+transactionID,
		`SELECT `+transactionColumns+` FROM transactions WHERE transaction_id = $1;`, transactionID)
}

func (r *PgxTransactionRepository) FindCommissionPayment(ctx context.Context, receiptID string) (*domain.Transaction, error) {
	return r.queryTransaction(ctx, "commission payment for receipt "+receiptID,
		`SELECT `+transactionColumns+` FROM transactions WHERE commission_for = $1;`, receiptID)
}

func (r *PgxTransactionRepository) FindCancellation(ctx context.Context, paymentID string) (*domain.Transaction, error) {
	return r.queryTransaction(ctx, "cancellation of payment "+paymentID,
		`SELECT `+transactionColumns+` FROM transactions WHERE reversal_of = $1;`, paymentID)
}

// ListTransactions retrieves every posting matching the filter in ledger order.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter) ([]domain.Transaction, error) {
	w := filterClause(filter)
	query := `SELECT ` + transactionColumns + ` FROM transactions ` + w.String() + ` ` + ledgerOrder + `;`
	return r.queryTransactions(ctx, query, w.args...)
}

// ListTransactionsPage retrieves one page of postings using a keyset on
// (transaction_date, created_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactionsPage(ctx context.Context, filter portsrepo.TransactionFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	w := filterClause(filter)
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("%v", err)
		}
		w.args = append(w.args, domain.BusinessDate(cursor.Date), cursor.CreatedAt, cursor.TransactionID)
		n := len(w.args)
		w.conds = append(w.conds, "(transaction_date, created_at, transaction_id) > ($"+
			strconv.Itoa(n-2)+", $"+strconv.Itoa(n-1)+", $"+strconv.Itoa(n)+")")
	}
	w.args = append(w.args, fetchLimit)
	query := `SELECT ` + transactionColumns + ` FROM transactions ` + w.String() + ` ` + ledgerOrder +
		` LIMIT $` + strconv.Itoa(len(w.args)) + `;`

	txns, err := r.queryTransactions(ctx, query, w.args...)
	if err != nil {
		return nil, nil, err
	}

	var next *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[limit-1]
		token := pagination.EncodeToken(last.Date, last.CreatedAt, last.TransactionID)
		next = &token
	}
	return txns, next, nil
}

func (r *PgxTransactionRepository) CountTransactionsByAccount(ctx context.Context, accountID string) (int, error) {
	var count int
	err := r.db(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE debit_account_id = $1 OR credit_account_id = $1;`, accountID).Scan(&count)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to count transactions for account "+accountID, err)
	}
	return count, nil
}

// SaveTransaction appends a posting.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		m.TransactionID,
		m.TransactionNumber,
		m.TransactionType,
		m.DebitAccountID,
		m.CreditAccountID,
		m.Amount,
		m.CommissionAmount,
		m.TransactionDate,
		m.Note,
		m.IsOpeningBalance,
		m.OpeningBalanceFor,
		m.IsCancellation,
		m.ReversalOf,
		m.IsCommission,
		m.CommissionFor,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "save transaction %s", m.TransactionNumber)
	}
	return nil
}

// UpdateTransaction overwrites the mutable fields of a posting. Number, type and
// creation audit fields never change.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET debit_account_id = $2, credit_account_id = $3, amount = $4, commission_amount = $5,
		    transaction_date = $6, note = $7, is_commission = $8, last_updated_at = $9, last_updated_by = $10
		WHERE transaction_id = $1;
	`
	tag, err := r.db(ctx).Exec(ctx, query,
		m.TransactionID,
		m.DebitAccountID,
		m.CreditAccountID,
		m.Amount,
		m.CommissionAmount,
		m.TransactionDate,
		m.Note,
		m.IsCommission,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, "update transaction %s", m.TransactionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction %s", m.TransactionID)
	}
	return nil
}

// DeleteTransaction removes a posting. A receipt still owning its commission
// payment is blocked by the commission_for foreign key.
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return mapPgError(err, "delete transaction %s", transactionID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction %s", transactionID)
	}
	return nil
}
