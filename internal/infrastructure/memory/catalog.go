package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type CategoryRepository struct{ conn }

func (r *CategoryRepository) ListActive(_ context.Context) ([]entity.Category, error) {
	out := []entity.Category{}
	err := r.read(func(d *state) error {
		for _, c := range d.categories {
			if c.IsActive {
				out = append(out, c)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *CategoryRepository) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	var out *entity.Category
	err := r.read(func(d *state) error {
		for _, c := range d.categories {
			if c.Slug == slug {
				c := c
				out = &c
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.read(func(d *state) error {
		c, ok := d.categories[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r *CategoryRepository) Upsert(_ context.Context, c *entity.Category) error {
	return r.write(func(d *state) error {
		for id, existing := range d.categories {
			if existing.Slug == c.Slug {
				c.ID, c.CreatedAt = id, existing.CreatedAt
				d.categories[id] = *c
				return nil
			}
		}
		c.ID = newID()
		c.CreatedAt = r.s.now()
		d.categories[c.ID] = *c
		return nil
	})
}

type ProductRepository struct{ conn }

// view copies p out of the store with its category slug filled in.
func view(d *state, p entity.Product) entity.Product {
	p = cloneProduct(p)
	p.CategorySlug = d.categories[p.CategoryID].Slug
	return p
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.read(func(d *state) error {
		p, ok := d.products[id]
		if !ok {
			return repository.ErrNotFound
		}
		p = view(d, p)
		out = &p
		return nil
	})
	return out, err
}

func (r *ProductRepository) GetByIDs(_ context.Context, ids []string) (map[string]entity.Product, error) {
	out := make(map[string]entity.Product, len(ids))
	err := r.read(func(d *state) error {
		for _, id := range ids {
			if p, ok := d.products[id]; ok {
				out[id] = view(d, p)
			}
		}
		return nil
	})
	return out, err
}

// LockByIDs is GetByIDs: inside WithTx the whole store is already locked.
func (r *ProductRepository) LockByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error) {
	return r.GetByIDs(ctx, ids)
}

func matches(p entity.Product, f repository.ProductFilter) bool {
	if !f.IncludeInactive && !p.IsActive {
		return false
	}
	if f.CategorySlug != "" && p.CategorySlug != f.CategorySlug {
		return false
	}
	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	if f.InStock != nil && p.InStock() != *f.InStock {
		return false
	}
	if f.Featured != nil && p.IsFeatured != *f.Featured {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Description), q) {
			return false
		}
	}
	return true
}

func productLess(sortBy repository.ProductSort) func(a, b entity.Product) bool {
	switch sortBy {
	case repository.SortPriceAsc:
		return func(a, b entity.Product) bool {
			if a.Price != b.Price {
				return a.Price < b.Price
			}
			return a.ID < b.ID
		}
	case repository.SortPriceDesc:
		return func(a, b entity.Product) bool {
			if a.Price != b.Price {
				return a.Price > b.Price
			}
			return a.ID > b.ID
		}
	case repository.SortName:
		return func(a, b entity.Product) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		}
	default:
		return func(a, b entity.Product) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	}
}

func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		limit = 20
	}
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func (r *ProductRepository) List(_ context.Context, f repository.ProductFilter) ([]entity.Product, int, error) {
	var all []entity.Product
	err := r.read(func(d *state) error {
		for _, p := range d.products {
			p = view(d, p)
			if matches(p, f) {
				all = append(all, p)
			}
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	less := productLess(f.Sort)
	sort.Slice(all, func(i, j int) bool { return less(all[i], all[j]) })
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *ProductRepository) TopSelling(_ context.Context, since time.Time, limit int) ([]entity.Product, error) {
	type ranked struct {
		p     entity.Product
		units int
	}
	var out []ranked
	err := r.read(func(d *state) error {
		units := map[string]int{}
		for id, o := range d.orders {
			if o.Status == entity.OrderCancelled || o.CreatedAt.Before(since) {
				continue
			}
			for _, it := range d.orderItems[id] {
				if it.ProductID != "" {
					units[it.ProductID] += it.Quantity
				}
			}
		}
		for pid, n := range units {
			p, ok := d.products[pid]
			if !ok || !p.IsActive {
				continue
			}
			out = append(out, ranked{p: view(d, p), units: n})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].units != out[j].units {
			return out[i].units > out[j].units
		}
		return out[i].p.ID < out[j].p.ID
	})
	products := make([]entity.Product, 0, len(out))
	for _, rk := range page(out, limit, 0) {
		products = append(products, rk.p)
	}
	return products, nil
}

func (r *ProductRepository) SlugExists(_ context.Context, slug string) (bool, error) {
	found := false
	err := r.read(func(d *state) error {
		for _, p := range d.products {
			if p.Slug == slug {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *ProductRepository) checkRow(d *state, p *entity.Product) error {
	if _, ok := d.categories[p.CategoryID]; !ok {
		return fmt.Errorf("%w: products_category_id_fkey", repository.ErrConflict)
	}
	if p.Stock < 0 || p.Price < 0 {
		return fmt.Errorf("%w: products_check", repository.ErrConflict)
	}
	for _, other := range d.products {
		if other.ID != p.ID && other.Slug == p.Slug {
			return duplicate("products_slug_key")
		}
	}
	return nil
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	return r.write(func(d *state) error {
		if err := r.checkRow(d, p); err != nil {
			return err
		}
		p.ID = newID()
		p.CreatedAt = r.s.now()
		p.UpdatedAt = p.CreatedAt
		d.products[p.ID] = cloneProduct(*p)
		p.CategorySlug = d.categories[p.CategoryID].Slug
		return nil
	})
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	return r.write(func(d *state) error {
		old, ok := d.products[p.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if err := r.checkRow(d, p); err != nil {
			return err
		}
		p.Slug, p.CreatedAt = old.Slug, old.CreatedAt
		p.UpdatedAt = r.s.now()
		d.products[p.ID] = cloneProduct(*p)
		return nil
	})
}

func (r *ProductRepository) AdjustStock(_ context.Context, id string, delta int) error {
	return r.write(func(d *state) error {
		p, ok := d.products[id]
		if !ok {
			return repository.ErrNotFound
		}
		if p.Stock+delta < 0 {
			return fmt.Errorf("%w: stock would go negative", repository.ErrConflict)
		}
		p.Stock += delta
		p.UpdatedAt = r.s.now()
		d.products[id] = p
		return nil
	})
}
