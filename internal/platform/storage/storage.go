// Package storage opens the repository provider selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
	"github.com/munna98/cashdesk/internal/platform/config"
	"github.com/munna98/cashdesk/internal/repositories/database/pgsql"
	"github.com/munna98/cashdesk/internal/repositories/memory"
	"github.com/munna98/cashdesk/pkg/database"
)

// Open builds the repositories for cfg.StorageDriver. For postgres it connects,
// optionally migrates, and returns a closer for the pool. The memory driver
// keeps everything in process and its closer is a no-op.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage, data is lost on exit")
		return memory.NewRepositoryProvider(memory.NewStore()), func() {}, nil

	case config.StorageDriverPostgres:
		if cfg.RunMigrations {
			if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
				return portsrepo.RepositoryProvider{}, nil, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, uint64(cfg.DBConnectRetries), logger)
		if err != nil {
			return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		return pgsql.NewRepositoryProvider(pool), func() { database.ClosePgxPool(pool, logger) }, nil
	}
	return portsrepo.RepositoryProvider{}, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
