package postgres

import (
	"context"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type WishlistRepository struct {
	db DBTX
}

func (r *WishlistRepository) List(ctx context.Context, userID string) ([]entity.WishlistItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, product_id, added_at FROM wishlist_items
		WHERE user_id = $1
		ORDER BY added_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.WishlistItem{}
	for rows.Next() {
		var w entity.WishlistItem
		if err := rows.Scan(&w.ID, &w.UserID, &w.ProductID, &w.AddedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, w)
	}
	return out, mapErr(rows.Err())
}

// Add relies on the (user_id, product_id) unique key; a concurrent duplicate
// add falls through to the select and reports created=false.
func (r *WishlistRepository) Add(ctx context.Context, userID, productID string) (*entity.WishlistItem, bool, error) {
	w := &entity.WishlistItem{UserID: userID, ProductID: productID}
	err := r.db.QueryRow(ctx, `
		INSERT INTO wishlist_items (user_id, product_id) VALUES ($1, $2)
		ON CONFLICT (user_id, product_id) DO NOTHING
		RETURNING id, added_at
	`, userID, productID).Scan(&w.ID, &w.AddedAt)
	if err == nil {
		return w, true, nil
	}
	if mapped := mapErr(err); mapped != repository.ErrNotFound {
		return nil, false, mapped
	}
	err = r.db.QueryRow(ctx, `
		SELECT id, added_at FROM wishlist_items WHERE user_id = $1 AND product_id = $2
	`, userID, productID).Scan(&w.ID, &w.AddedAt)
	if err != nil {
		return nil, false, mapErr(err)
	}
	return w, false, nil
}

func (r *WishlistRepository) Remove(ctx context.Context, userID, id string) (bool, error) {
	res, err := r.db.Exec(ctx, `DELETE FROM wishlist_items WHERE user_id = $1 AND id = $2`, userID, id)
	if err != nil {
		if mapErr(err) == repository.ErrNotFound {
			return false, nil
		}
		return false, mapErr(err)
	}
	return res.RowsAffected() > 0, nil
}

var _ repository.WishlistRepository = (*WishlistRepository)(nil)
