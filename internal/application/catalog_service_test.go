package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
)

func names(items []entity.Product) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.Name)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestListProducts_FiltersSortsAndPages(t *testing.T) {
	f := newFixture(t)
	shoes := f.category(t, "shoes")
	bags := f.category(t, "bags")
	f.product(t, shoes, "Ankara Sneaker", 15000, 3)
	f.product(t, shoes, "Leather Sandal", 8000, 0)
	f.product(t, shoes, "Canvas Loafer", 12000, 5)
	f.product(t, bags, "Tote Bag", 9000, 2)
	ctx := context.Background()

	page, err := f.catalog.ListProducts(ctx, application.ProductQuery{Category: "shoes", Sort: repository.SortPriceAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Leather Sandal", "Canvas Loafer", "Ankara Sneaker"}, names(page.Items))
	assert.Equal(t, 3, page.Total)

	page, err = f.catalog.ListProducts(ctx, application.ProductQuery{Category: "shoes", InStock: ptr(true), Sort: repository.SortName})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ankara Sneaker", "Canvas Loafer"}, names(page.Items))

	page, err = f.catalog.ListProducts(ctx, application.ProductQuery{MinPrice: ptr(int64(9000)), MaxPrice: ptr(int64(12000)), Sort: repository.SortPriceDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Canvas Loafer", "Tote Bag"}, names(page.Items))

	page, err = f.catalog.ListProducts(ctx, application.ProductQuery{Sort: repository.SortName, Pagination: application.Pagination{Page: 2, Limit: 3}})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, []string{"Tote Bag"}, names(page.Items))
}

func TestListProducts_RejectsBadQuery(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.ListProducts(ctx, application.ProductQuery{MinPrice: ptr(int64(500)), MaxPrice: ptr(int64(100))})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	_, err = f.catalog.ListProducts(ctx, application.ProductQuery{Sort: "popular"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestGetProduct_HidesInactive(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, f.category(t, "shoes"), "Runner", 5000, 1)
	ctx := context.Background()

	got, err := f.catalog.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "shoes", got.CategorySlug)

	_, err = f.catalog.UpdateProduct(ctx, p.ID, application.ProductPatch{IsActive: ptr(false)})
	require.NoError(t, err)
	_, err = f.catalog.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, application.ErrProductNotFound)

	_, err = f.catalog.GetProduct(ctx, "nope")
	assert.ErrorIs(t, err, application.ErrProductNotFound)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "shoes")
	f.product(t, cat, "Ankara Sneaker", 15000, 3)
	f.product(t, cat, "Canvas Loafer", 12000, 5)
	ctx := context.Background()

	_, err := f.catalog.Search(ctx, "   ", application.Pagination{})
	var ae *apperror.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperror.KindValidation, ae.Kind)
	assert.Contains(t, ae.Fields, "q")

	page, err := f.catalog.Search(ctx, "ANKARA", application.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ankara Sneaker"}, names(page.Items))
}

type fakeIndex struct {
	ids     []string
	err     error
	indexed []string
}

func (f *fakeIndex) SearchProducts(_ context.Context, _ string, _, _ int) ([]string, int, error) {
	return f.ids, len(f.ids), f.err
}

func (f *fakeIndex) IndexProduct(_ context.Context, p *entity.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func TestSearch_UsesIndexRanking(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "shoes")
	idx := &fakeIndex{}
	f.catalog.Index = idx
	sneaker := f.product(t, cat, "Ankara Sneaker", 15000, 3)
	loafer := f.product(t, cat, "Ankara Loafer", 12000, 5)
	assert.Equal(t, []string{sneaker.ID, loafer.ID}, idx.indexed)
	ctx := context.Background()

	idx.ids = []string{loafer.ID, sneaker.ID}
	page, err := f.catalog.Search(ctx, "ankara", application.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ankara Loafer", "Ankara Sneaker"}, names(page.Items))

	idx.err = errors.New("es down")
	page, err = f.catalog.Search(ctx, "ankara", application.Pagination{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ankara Loafer", "Ankara Sneaker"}, names(page.Items))
	assert.Equal(t, 2, page.Total)
}

func TestTrending_RanksByUnitsSold(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.ng", "+2348031234567")
	cat := f.category(t, "shoes")
	slow := f.product(t, cat, "Slow", 1000, 10)
	fast := f.product(t, cat, "Fast", 1000, 10)
	f.product(t, cat, "Unsold", 1000, 10)
	ctx := context.Background()

	buy := func(productID string, qty int) string {
		_, err := f.carts.AddItem(ctx, u.ID, productID, qty)
		require.NoError(t, err)
		o, err := f.orders.Create(ctx, u.ID, application.CreateOrderInput{Shipping: lagos})
		require.NoError(t, err)
		return o.ID
	}
	buy(slow.ID, 1)
	buy(fast.ID, 3)
	cancelled := buy(slow.ID, 5)
	_, err := f.orders.Cancel(ctx, u.ID, cancelled)
	require.NoError(t, err)

	items, err := f.catalog.Trending(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fast", "Slow"}, names(items))
}

func TestCategories_CachedUntilUpsert(t *testing.T) {
	f := newFixture(t)
	f.catalog.Cache = memory.NewCache()
	f.catalog.CategoryTTL = time.Minute
	ctx := context.Background()

	f.category(t, "shoes")
	cats, err := f.catalog.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)

	// a write that bypasses the service is not seen until the entry expires
	f.category(t, "bags")
	cats, err = f.catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)

	_, err = f.catalog.UpsertCategory(ctx, application.CategoryInput{Name: "Jewellery", IsActive: true})
	require.NoError(t, err)
	cats, err = f.catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 3)
}

func TestCategory_InactiveIsNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.catalog.UpsertCategory(ctx, application.CategoryInput{Slug: "archive", Name: "Archive"})
	require.NoError(t, err)

	_, err = f.catalog.Category(ctx, "archive")
	assert.ErrorIs(t, err, application.ErrCategoryNotFound)
	_, _, err = f.catalog.ProductsByCategory(ctx, "missing", application.ProductQuery{})
	assert.ErrorIs(t, err, application.ErrCategoryNotFound)
}

func TestCreateProduct_SlugsAreUnique(t *testing.T) {
	f := newFixture(t)
	cat := f.category(t, "shoes")

	a := f.product(t, cat, "Ankara Sneaker", 15000, 3)
	b := f.product(t, cat, "Ankara Sneaker", 15000, 3)
	c := f.product(t, cat, "Ankara  Sneaker!", 15000, 3)

	assert.Equal(t, "ankara-sneaker", a.Slug)
	assert.Equal(t, "ankara-sneaker-2", b.Slug)
	assert.Equal(t, "ankara-sneaker-3", c.Slug)

	_, err := f.catalog.CreateProduct(context.Background(), application.ProductInput{CategoryID: "4b0f2d4e-3d7e-4f1a-9c1e-6a2b1c0d9e8f", Name: "Orphan"})
	assert.ErrorIs(t, err, application.ErrCategoryNotFound)
}

func TestUploadProductImage_WithoutStorage(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, f.category(t, "shoes"), "Runner", 5000, 1)

	_, err := f.catalog.UploadProductImage(context.Background(), p.ID, nil, "a.png", "image/png")
	assert.ErrorIs(t, err, application.ErrStorageDisabled)
}
