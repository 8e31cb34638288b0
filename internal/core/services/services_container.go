package services

import (
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	portssvc "github.com/munna98/cashdesk/internal/core/ports/services"
	"github.com/munna98/cashdesk/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	symbol := DefaultCurrencySymbol
	if cfg != nil && cfg.CurrencySymbol != "" {
		symbol = cfg.CurrencySymbol
	}

	// Balance derivation only reads, so everything else can build on it.
	container.Balance = NewBalanceService(repos.AccountRepo, repos.TransactionRepo, WithCurrencySymbol(symbol))

	container.Ledger = NewLedgerService(
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.CounterRepo,
		repos.TxManager,
	)

	container.Account = NewAccountService(
		repos.AccountRepo,
		WithAccountTransactionManager(repos.TxManager),
		WithOpeningBalancePoster(container.Ledger),
		WithAccountBalances(container.Balance),
	)

	container.Entity = NewEntityService(
		repos.EntityRepo,
		repos.AccountRepo,
		repos.TransactionRepo,
		repos.TxManager,
		container.Ledger,
	)

	container.Reporting = NewReportingService(repos.AccountRepo, repos.TransactionRepo, container.Balance)

	return container
}
