package postgres

import (
	"context"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type AddressRepository struct {
	db DBTX
}

const addressColumns = `id, user_id, label, street, city, state, landmark, is_default, created_at`

func scanAddress(row interface{ Scan(dest ...any) error }) (*entity.Address, error) {
	a := &entity.Address{}
	if err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.Street, &a.City, &a.State, &a.Landmark, &a.IsDefault, &a.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID string) ([]entity.Address, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+addressColumns+` FROM addresses
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, mapErr(rows.Err())
}

func (r *AddressRepository) Get(ctx context.Context, userID, id string) (*entity.Address, error) {
	return scanAddress(r.db.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1 AND user_id = $2`, id, userID))
}

func (r *AddressRepository) Create(ctx context.Context, a *entity.Address) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO addresses (user_id, label, street, city, state, landmark, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, a.UserID, a.Label, a.Street, a.City, a.State, a.Landmark, a.IsDefault)
	return mapErr(row.Scan(&a.ID, &a.CreatedAt))
}

// Update leaves is_default alone; SetDefault owns that flag.
func (r *AddressRepository) Update(ctx context.Context, a *entity.Address) error {
	res, err := r.db.Exec(ctx, `
		UPDATE addresses SET label = $1, street = $2, city = $3, state = $4, landmark = $5
		WHERE id = $6 AND user_id = $7
	`, a.Label, a.Street, a.City, a.State, a.Landmark, a.ID, a.UserID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *AddressRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetDefault clears first: the partial unique index allows one default per user
// and is checked row by row.
func (r *AddressRepository) SetDefault(ctx context.Context, userID, id string) error {
	if _, err := r.db.Exec(ctx, `UPDATE addresses SET is_default = FALSE WHERE user_id = $1 AND is_default AND id <> $2`, userID, id); err != nil {
		return mapErr(err)
	}
	res, err := r.db.Exec(ctx, `UPDATE addresses SET is_default = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.AddressRepository = (*AddressRepository)(nil)
