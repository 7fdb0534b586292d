package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type ProductRepository struct {
	db DBTX
}

const productSelect = `
	SELECT p.id, p.category_id, c.slug, p.name, p.slug, p.description, p.price, p.compare_at_price,
	       p.image_url, p.image_alt, p.color, p.size, p.stock, p.is_active, p.is_featured,
	       p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func scanProduct(row interface{ Scan(dest ...any) error }) (*entity.Product, error) {
	p := &entity.Product{}
	if err := row.Scan(&p.ID, &p.CategoryID, &p.CategorySlug, &p.Name, &p.Slug, &p.Description, &p.Price,
		&p.CompareAtPrice, &p.ImageURL, &p.ImageAlt, &p.Color, &p.Size, &p.Stock, &p.IsActive, &p.IsFeatured,
		&p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *ProductRepository) collect(ctx context.Context, sql string, args ...any) ([]entity.Product, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, mapErr(rows.Err())
}

func byID(products []entity.Product) map[string]entity.Product {
	m := make(map[string]entity.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return scanProduct(r.db.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error) {
	if len(ids) == 0 {
		return map[string]entity.Product{}, nil
	}
	products, err := r.collect(ctx, productSelect+` WHERE p.id = ANY($1::text[]::uuid[])`, ids)
	if err != nil {
		return nil, err
	}
	return byID(products), nil
}

func (r *ProductRepository) LockByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error) {
	if len(ids) == 0 {
		return map[string]entity.Product{}, nil
	}
	products, err := r.collect(ctx, productSelect+`
		WHERE p.id = ANY($1::text[]::uuid[])
		ORDER BY p.id
		FOR UPDATE OF p`, ids)
	if err != nil {
		return nil, err
	}
	return byID(products), nil
}

var productOrder = map[repository.ProductSort]string{
	repository.SortNewest:    "p.created_at DESC, p.id DESC",
	repository.SortPriceAsc:  "p.price ASC, p.id ASC",
	repository.SortPriceDesc: "p.price DESC, p.id DESC",
	repository.SortName:      "p.name ASC, p.id ASC",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *ProductRepository) List(ctx context.Context, f repository.ProductFilter) ([]entity.Product, int, error) {
	clauses := []string{"TRUE"}
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !f.IncludeInactive {
		clauses = append(clauses, "p.is_active")
	}
	if f.CategorySlug != "" {
		clauses = append(clauses, "c.slug = "+arg(f.CategorySlug))
	}
	if f.MinPrice != nil {
		clauses = append(clauses, "p.price >= "+arg(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		clauses = append(clauses, "p.price <= "+arg(*f.MaxPrice))
	}
	if f.InStock != nil {
		if *f.InStock {
			clauses = append(clauses, "p.stock > 0")
		} else {
			clauses = append(clauses, "p.stock = 0")
		}
	}
	if f.Featured != nil {
		clauses = append(clauses, "p.is_featured = "+arg(*f.Featured))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := arg("%" + likeEscaper.Replace(s) + "%")
		clauses = append(clauses, fmt.Sprintf("(p.name ILIKE %s OR p.description ILIKE %s)", pattern, pattern))
	}
	where := " WHERE " + strings.Join(clauses, " AND ")

	var total int
	countSQL := `SELECT COUNT(*) FROM products p JOIN categories c ON c.id = p.category_id` + where
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	order, ok := productOrder[f.Sort]
	if !ok {
		order = productOrder[repository.SortNewest]
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	listSQL := productSelect + where + " ORDER BY " + order +
		fmt.Sprintf(" LIMIT %s OFFSET %s", arg(limit), arg(f.Offset))

	products, err := r.collect(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepository) TopSelling(ctx context.Context, since time.Time, limit int) ([]entity.Product, error) {
	return r.collect(ctx, `
		WITH sales AS (
			SELECT oi.product_id, SUM(oi.quantity) AS units
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.created_at >= $1 AND o.status <> 'cancelled' AND oi.product_id IS NOT NULL
			GROUP BY oi.product_id
		)`+productSelect+`
		JOIN sales s ON s.product_id = p.id
		WHERE p.is_active
		ORDER BY s.units DESC, p.id ASC
		LIMIT $2`, since, limit)
}

func (r *ProductRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE slug = $1)`, slug).Scan(&exists)
	return exists, mapErr(err)
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO products (category_id, name, slug, description, price, compare_at_price, image_url, image_alt,
		                      color, size, stock, is_active, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, p.CategoryID, p.Name, p.Slug, p.Description, p.Price, p.CompareAtPrice, p.ImageURL, p.ImageAlt,
		p.Color, p.Size, p.Stock, p.IsActive, p.IsFeatured)
	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	row := r.db.QueryRow(ctx, `
		UPDATE products
		SET category_id = $1, name = $2, description = $3, price = $4, compare_at_price = $5, image_url = $6,
		    image_alt = $7, color = $8, size = $9, stock = $10, is_active = $11, is_featured = $12, updated_at = now()
		WHERE id = $13
		RETURNING updated_at
	`, p.CategoryID, p.Name, p.Description, p.Price, p.CompareAtPrice, p.ImageURL,
		p.ImageAlt, p.Color, p.Size, p.Stock, p.IsActive, p.IsFeatured, p.ID)
	return mapErr(row.Scan(&p.UpdatedAt))
}

func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	res, err := r.db.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
	`, id, delta)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return mapErr(err)
	}
	if !exists {
		return repository.ErrNotFound
	}
	return fmt.Errorf("%w: stock would go negative", repository.ErrConflict)
}

var _ repository.ProductRepository = (*ProductRepository)(nil)
