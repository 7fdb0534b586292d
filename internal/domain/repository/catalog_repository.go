package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
)

type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortName      ProductSort = "name"
)

// ProductFilter narrows a product listing. Zero values mean "no filter".
type ProductFilter struct {
	CategorySlug string
	MinPrice     *int64
	MaxPrice     *int64
	InStock      *bool
	Featured     *bool
	Search       string
	// IncludeInactive is only set by admin listings.
	IncludeInactive bool
	Sort            ProductSort
	Limit           int
	Offset          int
}

type CategoryRepository interface {
	ListActive(ctx context.Context) ([]entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// Upsert inserts or updates by slug and fills c.ID/CreatedAt.
	Upsert(ctx context.Context, c *entity.Category) error
}

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs returns the products that exist, keyed by id.
	GetByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error)
	// LockByIDs locks the rows FOR UPDATE in ascending id order. Only meaningful
	// inside Store.WithTx.
	LockByIDs(ctx context.Context, ids []string) (map[string]entity.Product, error)
	List(ctx context.Context, f ProductFilter) ([]entity.Product, int, error)
	// TopSelling ranks active products by units sold in non-cancelled orders
	// created at or after since.
	TopSelling(ctx context.Context, since time.Time, limit int) ([]entity.Product, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, p *entity.Product) error
	Update(ctx context.Context, p *entity.Product) error
	// AdjustStock adds delta to stock. It fails with ErrConflict when the result
	// would be negative.
	AdjustStock(ctx context.Context, id string, delta int) error
}
