package pgsql

import (
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		EntityRepo:      newPgxEntityRepository(dbPool),
		CounterRepo:     newPgxCounterRepository(dbPool),
		TxManager:       newPgxTxManager(dbPool),
	}
}
