package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store owns the pool-bound repositories and opens transactions
type Store struct {
	pool *pgxpool.Pool
	*Repositories
}

// NewStore creates a Store over pool
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:         pool,
		Repositories: NewRepositories(pool),
	}
}

// WithTx implements Transactor
func (s *Store) WithTx(ctx context.Context, fn func(repos *Repositories) error) error {
	var fnErr error
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		fnErr = fn(NewRepositories(tx))
		return fnErr
	})
	if fnErr != nil {
		return fnErr
	}
	// begin or commit failed
	return translate(err, "transaction")
}

var _ Transactor = (*Store)(nil)
