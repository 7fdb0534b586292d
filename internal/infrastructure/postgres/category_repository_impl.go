package postgres

import (
	"context"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type CategoryRepository struct {
	db DBTX
}

const categoryColumns = `id, slug, name, description, image_url, is_active, sort_order, created_at`

func scanCategory(row interface{ Scan(dest ...any) error }) (*entity.Category, error) {
	c := &entity.Category{}
	if err := row.Scan(&c.ID, &c.Slug, &c.Name, &c.Description, &c.ImageURL, &c.IsActive, &c.SortOrder, &c.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (r *CategoryRepository) ListActive(ctx context.Context) ([]entity.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+categoryColumns+` FROM categories
		WHERE is_active
		ORDER BY sort_order ASC, name ASC, id ASC
	`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, mapErr(rows.Err())
}

func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	return scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug))
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	return scanCategory(r.db.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
}

func (r *CategoryRepository) Upsert(ctx context.Context, c *entity.Category) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO categories (slug, name, description, image_url, is_active, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (slug) DO UPDATE
		SET name = EXCLUDED.name, description = EXCLUDED.description, image_url = EXCLUDED.image_url,
		    is_active = EXCLUDED.is_active, sort_order = EXCLUDED.sort_order
		RETURNING id, created_at
	`, c.Slug, c.Name, c.Description, c.ImageURL, c.IsActive, c.SortOrder)
	return mapErr(row.Scan(&c.ID, &c.CreatedAt))
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)
