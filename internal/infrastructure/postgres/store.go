package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

// Store is the pgx-backed repository.Store.
type Store struct {
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

func NewStore(pool *pgxpool.Pool, logger *logrus.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

func reposFor(db DBTX) repository.Repositories {
	return repository.Repositories{
		Users:      &UserRepository{db: db},
		Addresses:  &AddressRepository{db: db},
		Categories: &CategoryRepository{db: db},
		Products:   &ProductRepository{db: db},
		Carts:      &CartRepository{db: db},
		Orders:     &OrderRepository{db: db},
		Wishlist:   &WishlistRepository{db: db},
	}
}

func (s *Store) Repos() repository.Repositories { return reposFor(s.pool) }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// WithTx runs fn in a READ COMMITTED transaction. Correctness of checkout
// relies on explicit row locks, not on the isolation level. A serialization
// failure or deadlock is retried exactly once.
func (s *Store) WithTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	err := s.runTx(ctx, fn)
	if isRetryable(err) {
		if s.logger != nil {
			s.logger.WithError(err).Warn("transaction conflict, retrying once")
		}
		err = s.runTx(ctx, fn)
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(reposFor(tx))
	})
}

var _ repository.Store = (*Store)(nil)
