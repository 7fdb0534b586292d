package application

import (
	"context"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type WishlistService struct {
	Store repository.Store
}

type WishlistEntry struct {
	Item    entity.WishlistItem
	Product entity.Product
}

// List skips entries whose product has been removed since.
func (s *WishlistService) List(ctx context.Context, userID string) ([]WishlistEntry, error) {
	repos := s.Store.Repos()
	items, err := repos.Wishlist.List(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	products, err := repos.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, internal(err)
	}
	out := make([]WishlistEntry, 0, len(items))
	for _, it := range items {
		if p, ok := products[it.ProductID]; ok {
			out = append(out, WishlistEntry{Item: it, Product: p})
		}
	}
	return out, nil
}

// Add is idempotent; created is false when the product was already listed.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) (*WishlistEntry, bool, error) {
	if !validID(productID) {
		return nil, false, ErrProductNotFound
	}
	repos := s.Store.Repos()
	p, err := repos.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, false, notFoundAs(err, ErrProductNotFound)
	}
	if !p.IsActive {
		return nil, false, ErrProductNotFound
	}
	item, created, err := repos.Wishlist.Add(ctx, userID, productID)
	if err != nil {
		return nil, false, internal(err)
	}
	return &WishlistEntry{Item: *item, Product: *p}, created, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID, id string) error {
	if !validID(id) {
		return ErrItemNotFound
	}
	removed, err := s.Store.Repos().Wishlist.Remove(ctx, userID, id)
	if err != nil {
		return internal(err)
	}
	if !removed {
		return ErrItemNotFound
	}
	return nil
}
