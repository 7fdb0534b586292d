package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type CartRepository struct{ conn }

func cartView(d *state, c entity.Cart) *entity.Cart {
	c.Items = []entity.CartItem{}
	for _, it := range d.cartItems {
		if it.CartID == c.ID {
			c.Items = append(c.Items, it)
		}
	}
	sort.Slice(c.Items, func(i, j int) bool {
		if !c.Items[i].AddedAt.Equal(c.Items[j].AddedAt) {
			return c.Items[i].AddedAt.Before(c.Items[j].AddedAt)
		}
		return c.Items[i].ID < c.Items[j].ID
	})
	return &c
}

func cartFor(d *state, userID string) (entity.Cart, bool) {
	for _, c := range d.carts {
		if c.UserID == userID {
			return c, true
		}
	}
	return entity.Cart{}, false
}

func (r *CartRepository) GetByUser(_ context.Context, userID string) (*entity.Cart, error) {
	var out *entity.Cart
	err := r.read(func(d *state) error {
		c, ok := cartFor(d, userID)
		if !ok {
			return repository.ErrNotFound
		}
		out = cartView(d, c)
		return nil
	})
	return out, err
}

func (r *CartRepository) Lock(_ context.Context, userID string) (*entity.Cart, error) {
	var out *entity.Cart
	err := r.write(func(d *state) error {
		c, ok := cartFor(d, userID)
		if !ok {
			if _, exists := d.users[userID]; !exists {
				return fmt.Errorf("%w: carts_user_id_fkey", repository.ErrConflict)
			}
			now := r.s.now()
			c = entity.Cart{ID: newID(), UserID: userID, CreatedAt: now, UpdatedAt: now}
			d.carts[c.ID] = c
		}
		out = cartView(d, c)
		return nil
	})
	return out, err
}

func (r *CartRepository) touch(d *state, cartID string) {
	if c, ok := d.carts[cartID]; ok {
		c.UpdatedAt = r.s.now()
		d.carts[cartID] = c
	}
}

func (r *CartRepository) AddItem(_ context.Context, item *entity.CartItem) error {
	return r.write(func(d *state) error {
		if _, ok := d.carts[item.CartID]; !ok {
			return fmt.Errorf("%w: cart_items_cart_id_fkey", repository.ErrConflict)
		}
		if _, ok := d.products[item.ProductID]; !ok {
			return fmt.Errorf("%w: cart_items_product_id_fkey", repository.ErrConflict)
		}
		if item.Quantity < 1 {
			return fmt.Errorf("%w: cart_items_quantity_check", repository.ErrConflict)
		}
		for _, it := range d.cartItems {
			if it.CartID == item.CartID && it.ProductID == item.ProductID {
				return duplicate("cart_items_cart_id_product_id_key")
			}
		}
		item.ID = newID()
		item.AddedAt = r.s.now()
		d.cartItems[item.ID] = *item
		r.touch(d, item.CartID)
		return nil
	})
}

func (r *CartRepository) UpdateItemQuantity(_ context.Context, cartID, itemID string, qty int) error {
	return r.write(func(d *state) error {
		it, ok := d.cartItems[itemID]
		if !ok || it.CartID != cartID {
			return repository.ErrNotFound
		}
		if qty < 1 {
			return fmt.Errorf("%w: cart_items_quantity_check", repository.ErrConflict)
		}
		it.Quantity = qty
		d.cartItems[itemID] = it
		r.touch(d, cartID)
		return nil
	})
}

func (r *CartRepository) RemoveItem(_ context.Context, cartID, itemID string) (bool, error) {
	removed := false
	err := r.write(func(d *state) error {
		it, ok := d.cartItems[itemID]
		if !ok || it.CartID != cartID {
			return nil
		}
		delete(d.cartItems, itemID)
		r.touch(d, cartID)
		removed = true
		return nil
	})
	return removed, err
}

func (r *CartRepository) Clear(_ context.Context, cartID string) error {
	return r.write(func(d *state) error {
		for id, it := range d.cartItems {
			if it.CartID == cartID {
				delete(d.cartItems, id)
			}
		}
		r.touch(d, cartID)
		return nil
	})
}

type WishlistRepository struct{ conn }

func (r *WishlistRepository) List(_ context.Context, userID string) ([]entity.WishlistItem, error) {
	out := []entity.WishlistItem{}
	err := r.read(func(d *state) error {
		for _, w := range d.wishlist {
			if w.UserID == userID {
				out = append(out, w)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AddedAt.Equal(out[j].AddedAt) {
			return out[i].AddedAt.After(out[j].AddedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, err
}

func (r *WishlistRepository) Add(_ context.Context, userID, productID string) (*entity.WishlistItem, bool, error) {
	var (
		out     entity.WishlistItem
		created bool
	)
	err := r.write(func(d *state) error {
		for _, w := range d.wishlist {
			if w.UserID == userID && w.ProductID == productID {
				out = w
				return nil
			}
		}
		if _, ok := d.products[productID]; !ok {
			return fmt.Errorf("%w: wishlist_items_product_id_fkey", repository.ErrConflict)
		}
		out = entity.WishlistItem{ID: newID(), UserID: userID, ProductID: productID, AddedAt: r.s.now()}
		d.wishlist[out.ID] = out
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &out, created, nil
}

func (r *WishlistRepository) Remove(_ context.Context, userID, id string) (bool, error) {
	removed := false
	err := r.write(func(d *state) error {
		w, ok := d.wishlist[id]
		if ok && w.UserID == userID {
			delete(d.wishlist, id)
			removed = true
		}
		return nil
	})
	return removed, err
}
