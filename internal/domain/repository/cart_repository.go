package repository

import (
	"context"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
)

type CartRepository interface {
	// GetByUser returns the cart with its items, or ErrNotFound.
	GetByUser(ctx context.Context, userID string) (*entity.Cart, error)
	// Lock creates the cart if needed and locks it for the rest of the transaction.
	Lock(ctx context.Context, userID string) (*entity.Cart, error)
	AddItem(ctx context.Context, item *entity.CartItem) error
	UpdateItemQuantity(ctx context.Context, cartID, itemID string, qty int) error
	// RemoveItem reports whether a row was deleted.
	RemoveItem(ctx context.Context, cartID, itemID string) (bool, error)
	Clear(ctx context.Context, cartID string) error
}

type WishlistRepository interface {
	List(ctx context.Context, userID string) ([]entity.WishlistItem, error)
	// Add inserts the pair unless it exists and reports whether a row was created.
	Add(ctx context.Context, userID, productID string) (*entity.WishlistItem, bool, error)
	Remove(ctx context.Context, userID, id string) (bool, error)
}
