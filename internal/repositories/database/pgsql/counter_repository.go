package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
)

type PgxCounterRepository struct {
	BaseRepository
}

func newPgxCounterRepository(pool *pgxpool.Pool) portsrepo.SequenceGenerator {
	return &PgxCounterRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceGenerator = (*PgxCounterRepository)(nil)

// NextSequence increments the named counter in a single statement. The row lock
// is held until the surrounding transaction ends, so concurrent posters queue
// behind each other and a rolled back posting gives its number back.
func (r *PgxCounterRepository) NextSequence(ctx context.Context, counterName string) (int64, error) {
	query := `
		INSERT INTO counters (name, seq) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq;
	`
	var seq int64
	if err := r.db(ctx).QueryRow(ctx, query, counterName).Scan(&seq); err != nil {
		return 0, mapPgError(err, "advance counter %s", counterName)
	}
	return seq, nil
}
