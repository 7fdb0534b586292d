package postgres

import (
	"context"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type CartRepository struct {
	db DBTX
}

func (r *CartRepository) items(ctx context.Context, cartID string) ([]entity.CartItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, cart_id, product_id, quantity, added_at
		FROM cart_items WHERE cart_id = $1
		ORDER BY added_at ASC, id ASC
	`, cartID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.CartItem{}
	for rows.Next() {
		var it entity.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.AddedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, it)
	}
	return out, mapErr(rows.Err())
}

func (r *CartRepository) withItems(ctx context.Context, c *entity.Cart) (*entity.Cart, error) {
	items, err := r.items(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return c, nil
}

func (r *CartRepository) GetByUser(ctx context.Context, userID string) (*entity.Cart, error) {
	c := &entity.Cart{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return r.withItems(ctx, c)
}

// Lock makes sure the cart row exists and holds its row lock until the
// surrounding transaction ends. Concurrent mutations of one cart serialize here.
func (r *CartRepository) Lock(ctx context.Context, userID string) (*entity.Cart, error) {
	if _, err := r.db.Exec(ctx, `
		INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING
	`, userID); err != nil {
		return nil, mapErr(err)
	}
	c := &entity.Cart{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1 FOR UPDATE
	`, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return r.withItems(ctx, c)
}

func (r *CartRepository) touch(ctx context.Context, cartID string) error {
	_, err := r.db.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE id = $1`, cartID)
	return mapErr(err)
}

func (r *CartRepository) AddItem(ctx context.Context, item *entity.CartItem) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id, added_at
	`, item.CartID, item.ProductID, item.Quantity).Scan(&item.ID, &item.AddedAt)
	if err != nil {
		return mapErr(err)
	}
	return r.touch(ctx, item.CartID)
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, cartID, itemID string, qty int) error {
	res, err := r.db.Exec(ctx, `
		UPDATE cart_items SET quantity = $3 WHERE cart_id = $1 AND id = $2
	`, cartID, itemID, qty)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return r.touch(ctx, cartID)
}

func (r *CartRepository) RemoveItem(ctx context.Context, cartID, itemID string) (bool, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1 AND id = $2`, cartID, itemID)
	if err != nil {
		if mapped := mapErr(err); mapped == repository.ErrNotFound {
			return false, nil
		}
		return false, mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return false, nil
	}
	return true, r.touch(ctx, cartID)
}

func (r *CartRepository) Clear(ctx context.Context, cartID string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return mapErr(err)
	}
	return r.touch(ctx, cartID)
}

var _ repository.CartRepository = (*CartRepository)(nil)
