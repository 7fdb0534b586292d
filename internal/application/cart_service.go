package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
)

type CartService struct {
	Store  repository.Store
	Logger *logrus.Logger
}

// CartLine prices an item with the live product. Product is nil when the
// product no longer exists.
type CartLine struct {
	Item      entity.CartItem
	Product   *entity.Product
	UnitPrice int64
	Subtotal  int64
	Available bool
}

type CartView struct {
	ID         string
	Lines      []CartLine
	TotalItems int
	Total      int64
	UpdatedAt  time.Time
}

func buildCartView(c *entity.Cart, products map[string]entity.Product) *CartView {
	v := &CartView{ID: c.ID, Lines: []CartLine{}, UpdatedAt: c.UpdatedAt}
	for _, it := range c.Items {
		line := CartLine{Item: it}
		if p, ok := products[it.ProductID]; ok {
			p := p
			line.Product = &p
			line.UnitPrice = p.Price
			line.Subtotal = p.Price * int64(it.Quantity)
			line.Available = p.CanFulfil(it.Quantity)
		}
		v.Lines = append(v.Lines, line)
		v.TotalItems += it.Quantity
		v.Total += line.Subtotal
	}
	return v
}

// GetCart never creates a cart; a user without one sees an empty view.
func (s *CartService) GetCart(ctx context.Context, userID string) (*CartView, error) {
	repos := s.Store.Repos()
	c, err := repos.Carts.GetByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &CartView{Lines: []CartLine{}}, nil
	}
	if err != nil {
		return nil, internal(err)
	}
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	products, err := repos.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, internal(err)
	}
	return buildCartView(c, products), nil
}

func sellable(ctx context.Context, r repository.Repositories, productID string) (*entity.Product, error) {
	if !validID(productID) {
		return nil, ErrProductNotFound
	}
	p, err := r.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFoundAs(err, ErrProductNotFound)
	}
	if !p.IsActive {
		return nil, ErrProductInactive
	}
	return p, nil
}

// AddItem merges into an existing line. The merged quantity is capped at the
// current stock; a single request for more than is in stock fails.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (*CartView, error) {
	if qty < 1 {
		return nil, apperror.Validation("invalid quantity", map[string][]string{"quantity": {"must be greater than or equal to 1"}})
	}
	err := s.Store.WithTx(ctx, func(r repository.Repositories) error {
		p, err := sellable(ctx, r, productID)
		if err != nil {
			return err
		}
		if qty > p.Stock {
			return insufficientStock(p.Name, p.Stock)
		}
		cart, err := r.Carts.Lock(ctx, userID)
		if err != nil {
			return internal(err)
		}
		if it, ok := cart.ItemForProduct(p.ID); ok {
			merged := it.Quantity + qty
			if merged > p.Stock {
				merged = p.Stock
			}
			return internal(r.Carts.UpdateItemQuantity(ctx, cart.ID, it.ID, merged))
		}
		return internal(r.Carts.AddItem(ctx, &entity.CartItem{CartID: cart.ID, ProductID: p.ID, Quantity: qty}))
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// UpdateItem sets an absolute quantity; qty <= 0 removes the line.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID string, qty int) (*CartView, error) {
	if !validID(itemID) {
		return nil, ErrItemNotFound
	}
	err := s.Store.WithTx(ctx, func(r repository.Repositories) error {
		cart, err := r.Carts.Lock(ctx, userID)
		if err != nil {
			return internal(err)
		}
		it, ok := cart.Item(itemID)
		if !ok {
			return ErrItemNotFound
		}
		if qty <= 0 {
			_, err := r.Carts.RemoveItem(ctx, cart.ID, it.ID)
			return internal(err)
		}
		p, err := sellable(ctx, r, it.ProductID)
		if err != nil {
			return err
		}
		if qty > p.Stock {
			return insufficientStock(p.Name, p.Stock)
		}
		return internal(r.Carts.UpdateItemQuantity(ctx, cart.ID, it.ID, qty))
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}

// RemoveItem is idempotent: an unknown item leaves the cart as it is.
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) (*CartView, error) {
	if validID(itemID) {
		err := s.Store.WithTx(ctx, func(r repository.Repositories) error {
			cart, err := r.Carts.GetByUser(ctx, userID)
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			if err != nil {
				return internal(err)
			}
			_, err = r.Carts.RemoveItem(ctx, cart.ID, itemID)
			return internal(err)
		})
		if err != nil {
			return nil, err
		}
	}
	return s.GetCart(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) (*CartView, error) {
	err := s.Store.WithTx(ctx, func(r repository.Repositories) error {
		cart, err := r.Carts.GetByUser(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return internal(err)
		}
		return internal(r.Carts.Clear(ctx, cart.ID))
	})
	if err != nil {
		return nil, err
	}
	return s.GetCart(ctx, userID)
}
