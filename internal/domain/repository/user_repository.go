package repository

import (
	"context"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// Upsert inserts or updates by email. Used by seeding.
	Upsert(ctx context.Context, u *entity.User) error
}

// AddressRepository queries are always scoped to the owning user; a foreign
// address reads as ErrNotFound.
type AddressRepository interface {
	ListByUser(ctx context.Context, userID string) ([]entity.Address, error)
	Get(ctx context.Context, userID, id string) (*entity.Address, error)
	Create(ctx context.Context, a *entity.Address) error
	Update(ctx context.Context, a *entity.Address) error
	Delete(ctx context.Context, userID, id string) error
	// SetDefault marks id as default and clears the flag on the user's other addresses.
	SetDefault(ctx context.Context, userID, id string) error
}
