// Package memory is an in-process storage adapter used for development mode
// and service tests. Units of work are serialised and rolled back by restoring
// a snapshot of the store.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/munna98/cashdesk/internal/core/domain"
	portsrepo "github.com/munna98/cashdesk/internal/core/ports/repositories"
)

type txKey struct{}

// Store holds every table in maps guarded by a single lock.
type Store struct {
	txMu sync.Mutex   // held for the whole of a unit of work
	mu   sync.RWMutex // guards the maps below

	accounts     map[string]domain.Account
	entities     map[string]domain.Entity
	transactions map[string]domain.Transaction
	counters     map[string]int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:     map[string]domain.Account{},
		entities:     map[string]domain.Entity{},
		transactions: map[string]domain.Transaction{},
		counters:     map[string]int64{},
	}
}

// NewRepositoryProvider exposes the store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:     store,
		TransactionRepo: store,
		EntityRepo:      store,
		CounterRepo:     store,
		TxManager:       store,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.EntityRepositoryFacade      = (*Store)(nil)
	_ portsrepo.SequenceGenerator           = (*Store)(nil)
	_ portsrepo.TransactionManager          = (*Store)(nil)
)

type snapshot struct {
	accounts     map[string]domain.Account
	entities     map[string]domain.Entity
	transactions map[string]domain.Transaction
	counters     map[string]int64
}

// WithinTransaction runs fn while holding the store's unit-of-work lock and
// restores the previous state if fn fails or panics. Nested calls join the outer unit.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if inTransaction(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	saved := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(saved)
			panic(p)
		}
		if err != nil {
			s.restore(saved)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}

func inTransaction(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// write runs a single mutation as its own unit of work unless one is already open.
func (s *Store) write(ctx context.Context, fn func() error) error {
	return s.WithinTransaction(ctx, func(context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		return fn()
	})
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		accounts:     maps.Clone(s.accounts),
		entities:     maps.Clone(s.entities),
		transactions: maps.Clone(s.transactions),
		counters:     maps.Clone(s.counters),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = snap.accounts
	s.entities = snap.entities
	s.transactions = snap.transactions
	s.counters = snap.counters
}

// NextSequence increments the named counter. Inside a unit of work the increment
// is undone if the unit rolls back.
func (s *Store) NextSequence(ctx context.Context, counterName string) (int64, error) {
	var next int64
	err := s.write(ctx, func() error {
		next = s.counters[counterName] + 1
		s.counters[counterName] = next
		return nil
	})
	return next, err
}
