package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
	// ErrConflict signals a violated storage-level guard such as stock >= 0.
	ErrConflict = errors.New("conflict")
)

// Repositories is one consistent view of storage. Inside Store.WithTx every
// member shares the same transaction.
type Repositories struct {
	Users      UserRepository
	Addresses  AddressRepository
	Categories CategoryRepository
	Products   ProductRepository
	Carts      CartRepository
	Orders     OrderRepository
	Wishlist   WishlistRepository
}

// Store hands out repositories bound either to the connection pool or to a
// single transaction.
type Store interface {
	Repos() Repositories
	// WithTx runs fn in one transaction: it commits when fn returns nil and
	// rolls back otherwise, returning fn's error unchanged.
	WithTx(ctx context.Context, fn func(r Repositories) error) error
	Ping(ctx context.Context) error
}
