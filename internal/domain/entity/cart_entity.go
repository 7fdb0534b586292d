package entity

import "time"

// Cart is created lazily, one per user.
type Cart struct {
	ID        string
	UserID    string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem quantity is always >= 1; a line that would drop to zero is deleted.
type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
	AddedAt   time.Time
}

func (c *Cart) Item(id string) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i], true
		}
	}
	return nil, false
}

func (c *Cart) ItemForProduct(productID string) (*CartItem, bool) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// WishlistItem is unique per (user, product).
type WishlistItem struct {
	ID        string
	UserID    string
	ProductID string
	AddedAt   time.Time
}
