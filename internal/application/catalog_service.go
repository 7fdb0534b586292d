package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
	"github.com/oksasatya/go-ecommerce-api/pkg/helpers"
	"github.com/oksasatya/go-ecommerce-api/pkg/validation"
)

const categoriesCacheKey = "catalog:categories"

// CatalogService serves product and category reads plus the admin writes.
// Product reads always hit the store; only the category list is cached.
type CatalogService struct {
	Store          repository.Store
	Cache          Cache
	Index          ProductSearcher
	Storage        ObjectStorage
	Logger         *logrus.Logger
	TrendingWindow time.Duration
	CategoryTTL    time.Duration
	Now            func() time.Time
}

func (s *CatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type ProductQuery struct {
	Category string
	MinPrice *int64
	MaxPrice *int64
	InStock  *bool
	Featured *bool
	Search   string
	Sort     repository.ProductSort
	Pagination
}

func (q ProductQuery) filter() (repository.ProductFilter, error) {
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return repository.ProductFilter{}, apperror.Validation("invalid price range",
			map[string][]string{"min_price": {"must be less than or equal to max_price"}})
	}
	switch q.Sort {
	case "", repository.SortNewest, repository.SortPriceAsc, repository.SortPriceDesc, repository.SortName:
	default:
		return repository.ProductFilter{}, apperror.Validation("invalid sort",
			map[string][]string{"sort": {"must be one of [newest price_asc price_desc name]"}})
	}
	p := q.Pagination.Normalize()
	return repository.ProductFilter{
		CategorySlug: q.Category,
		MinPrice:     q.MinPrice,
		MaxPrice:     q.MaxPrice,
		InStock:      q.InStock,
		Featured:     q.Featured,
		Search:       strings.TrimSpace(q.Search),
		Sort:         q.Sort,
		Limit:        p.Limit,
		Offset:       q.Pagination.Offset(),
	}, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, q ProductQuery) (Page[entity.Product], error) {
	f, err := q.filter()
	if err != nil {
		return Page[entity.Product]{}, err
	}
	items, total, err := s.Store.Repos().Products.List(ctx, f)
	if err != nil {
		return Page[entity.Product]{}, internal(err)
	}
	return newPage(items, total, q.Pagination), nil
}

// GetProduct hides inactive products from shoppers.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, ErrProductNotFound
	}
	p, err := s.Store.Repos().Products.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrProductNotFound)
	}
	if !p.IsActive {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// Search matches name and description case-insensitively. With an index
// configured the ranking comes from Elasticsearch; a failing index falls back
// to the store.
func (s *CatalogService) Search(ctx context.Context, query string, pg Pagination) (Page[entity.Product], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Page[entity.Product]{}, apperror.Validation("search query is required", map[string][]string{"q": {"is required"}})
	}
	pg = pg.Normalize()

	if s.Index != nil {
		items, total, err := s.searchIndex(ctx, query, pg)
		if err == nil {
			return newPage(items, total, pg), nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("q", query).Warn("search index failed, falling back to store")
		}
	}
	return s.ListProducts(ctx, ProductQuery{Search: query, Sort: repository.SortName, Pagination: pg})
}

func (s *CatalogService) searchIndex(ctx context.Context, query string, pg Pagination) ([]entity.Product, int, error) {
	ids, total, err := s.Index.SearchProducts(ctx, query, pg.Limit, pg.Offset())
	if err != nil {
		return nil, 0, err
	}
	byID, err := s.Store.Repos().Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	items := make([]entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok && p.IsActive {
			items = append(items, p)
		}
	}
	return items, total, nil
}

func (s *CatalogService) Featured(ctx context.Context, limit int) ([]entity.Product, error) {
	featured := true
	page, err := s.ListProducts(ctx, ProductQuery{Featured: &featured, Pagination: Pagination{Page: 1, Limit: limit}})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Trending ranks by units sold in non-cancelled orders inside the window.
func (s *CatalogService) Trending(ctx context.Context, limit int) ([]entity.Product, error) {
	limit = Pagination{Page: 1, Limit: limit}.Normalize().Limit
	window := s.TrendingWindow
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	items, err := s.Store.Repos().Products.TopSelling(ctx, s.now().Add(-window), limit)
	if err != nil {
		return nil, internal(err)
	}
	if items == nil {
		items = []entity.Product{}
	}
	return items, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]entity.Category, error) {
	if s.Cache != nil {
		var cached []entity.Category
		hit, err := s.Cache.Get(ctx, categoriesCacheKey, &cached)
		if err == nil && hit {
			return cached, nil
		}
		if err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("category cache read failed")
		}
	}
	cats, err := s.Store.Repos().Categories.ListActive(ctx)
	if err != nil {
		return nil, internal(err)
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, categoriesCacheKey, cats, s.CategoryTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("category cache write failed")
		}
	}
	return cats, nil
}

func (s *CatalogService) Category(ctx context.Context, slug string) (*entity.Category, error) {
	c, err := s.Store.Repos().Categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundAs(err, ErrCategoryNotFound)
	}
	if !c.IsActive {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (s *CatalogService) ProductsByCategory(ctx context.Context, slug string, q ProductQuery) (*entity.Category, Page[entity.Product], error) {
	c, err := s.Category(ctx, slug)
	if err != nil {
		return nil, Page[entity.Product]{}, err
	}
	q.Category = c.Slug
	page, err := s.ListProducts(ctx, q)
	return c, page, err
}

type CategoryInput struct {
	Slug        string
	Name        string
	Description string
	ImageURL    string
	IsActive    bool
	SortOrder   int
}

func (s *CatalogService) UpsertCategory(ctx context.Context, in CategoryInput) (*entity.Category, error) {
	slug := in.Slug
	if slug == "" {
		slug = validation.Slugify(in.Name)
	}
	c := &entity.Category{
		Slug:        slug,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		IsActive:    in.IsActive,
		SortOrder:   in.SortOrder,
	}
	if err := s.Store.Repos().Categories.Upsert(ctx, c); err != nil {
		return nil, internal(err)
	}
	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, categoriesCacheKey); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("category cache invalidation failed")
		}
	}
	return c, nil
}

type ProductInput struct {
	CategoryID     string
	Name           string
	Slug           string
	Description    string
	Price          int64
	CompareAtPrice *int64
	ImageURL       string
	ImageAlt       string
	Color          string
	Size           string
	Stock          int
	IsActive       bool
	IsFeatured     bool
}

// uniqueSlug appends -2, -3, ... until the slug is free.
func uniqueSlug(ctx context.Context, products repository.ProductRepository, base string) (string, error) {
	if base == "" {
		base = "product"
	}
	slug := base
	for n := 2; ; n++ {
		taken, err := products.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, n)
	}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*entity.Product, error) {
	repos := s.Store.Repos()
	if !validID(in.CategoryID) {
		return nil, ErrCategoryNotFound
	}
	cat, err := repos.Categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, notFoundAs(err, ErrCategoryNotFound)
	}
	base := in.Slug
	if base == "" {
		base = validation.Slugify(in.Name)
	}
	slug, err := uniqueSlug(ctx, repos.Products, base)
	if err != nil {
		return nil, internal(err)
	}
	p := &entity.Product{
		CategoryID:     cat.ID,
		Name:           strings.TrimSpace(in.Name),
		Slug:           slug,
		Description:    in.Description,
		Price:          in.Price,
		CompareAtPrice: in.CompareAtPrice,
		ImageURL:       in.ImageURL,
		ImageAlt:       in.ImageAlt,
		Color:          in.Color,
		Size:           in.Size,
		Stock:          in.Stock,
		IsActive:       in.IsActive,
		IsFeatured:     in.IsFeatured,
	}
	if err := repos.Products.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateSlug
		}
		return nil, internal(err)
	}
	p.CategorySlug = cat.Slug
	s.index(ctx, p)
	helpers.LogInfo(s.Logger, "product created", logrus.Fields{"product_id": p.ID, "slug": p.Slug})
	return p, nil
}

// ProductPatch updates only the non-nil fields.
type ProductPatch struct {
	CategoryID     *string
	Name           *string
	Description    *string
	Price          *int64
	CompareAtPrice *int64
	ImageURL       *string
	ImageAlt       *string
	Color          *string
	Size           *string
	Stock          *int
	IsActive       *bool
	IsFeatured     *bool
}

func (p ProductPatch) apply(dst *entity.Product) {
	setIf(&dst.CategoryID, p.CategoryID)
	setIf(&dst.Name, p.Name)
	setIf(&dst.Description, p.Description)
	setIf(&dst.Price, p.Price)
	setIf(&dst.ImageURL, p.ImageURL)
	setIf(&dst.ImageAlt, p.ImageAlt)
	setIf(&dst.Color, p.Color)
	setIf(&dst.Size, p.Size)
	setIf(&dst.Stock, p.Stock)
	setIf(&dst.IsActive, p.IsActive)
	setIf(&dst.IsFeatured, p.IsFeatured)
	if p.CompareAtPrice != nil {
		v := *p.CompareAtPrice
		dst.CompareAtPrice = &v
	}
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// UpdateProduct locks the row so a stock edit cannot interleave with checkout.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*entity.Product, error) {
	if !validID(id) {
		return nil, ErrProductNotFound
	}
	if patch.CategoryID != nil && !validID(*patch.CategoryID) {
		return nil, ErrCategoryNotFound
	}
	var out *entity.Product
	err := s.Store.WithTx(ctx, func(r repository.Repositories) error {
		locked, err := r.Products.LockByIDs(ctx, []string{id})
		if err != nil {
			return internal(err)
		}
		p, ok := locked[id]
		if !ok {
			return ErrProductNotFound
		}
		patch.apply(&p)
		cat, err := r.Categories.GetByID(ctx, p.CategoryID)
		if err != nil {
			return notFoundAs(err, ErrCategoryNotFound)
		}
		if err := r.Products.Update(ctx, &p); err != nil {
			return internal(err)
		}
		p.CategorySlug = cat.Slug
		out = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.index(ctx, out)
	return out, nil
}

func (s *CatalogService) UploadProductImage(ctx context.Context, id string, r io.Reader, filename, contentType string) (*entity.Product, error) {
	if s.Storage == nil {
		return nil, ErrStorageDisabled
	}
	if !validID(id) {
		return nil, ErrProductNotFound
	}
	if _, err := s.Store.Repos().Products.GetByID(ctx, id); err != nil {
		return nil, notFoundAs(err, ErrProductNotFound)
	}
	objectPath := fmt.Sprintf("products/%s/%s%s", id, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))
	url, err := s.Storage.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		helpers.LogError(s.Logger, "product image upload failed", err, logrus.Fields{"product_id": id})
		return nil, internal(err)
	}
	return s.UpdateProduct(ctx, id, ProductPatch{ImageURL: &url})
}

func (s *CatalogService) index(ctx context.Context, p *entity.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, p); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("product_id", p.ID).Warn("product index failed")
	}
}
