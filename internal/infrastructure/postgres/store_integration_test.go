package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	pginfra "github.com/oksasatya/go-ecommerce-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ecommerce-api/pkg/helpers"
)

// openStore migrates TEST_DATABASE_URL and empties every table. The tests are
// skipped when the variable is unset.
func openStore(t *testing.T) *pginfra.Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	logger := helpers.NewNopLogger()
	require.NoError(t, pginfra.RunMigrations(dsn, "../../../db/migrations", logger))

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, dsn, 8, 1, time.Hour)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE wishlist_items, order_timeline, order_items, orders,
		cart_items, carts, products, categories, addresses, users CASCADE`)
	require.NoError(t, err)
	return pginfra.NewStore(pool, logger)
}

func seedUser(t *testing.T, store repository.Store, email, phone string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Phone: phone, Name: "Ada Obi", Password: "x", Role: entity.RoleCustomer, IsActive: true}
	require.NoError(t, store.Repos().Users.Create(context.Background(), u))
	return u
}

func seedProduct(t *testing.T, catalog *application.CatalogService, stock int) *entity.Product {
	t.Helper()
	ctx := context.Background()
	cat, err := catalog.UpsertCategory(ctx, application.CategoryInput{Slug: "shoes", Name: "Shoes", IsActive: true})
	require.NoError(t, err)
	p, err := catalog.CreateProduct(ctx, application.ProductInput{
		CategoryID: cat.ID, Name: "Runner", Price: 5000, Stock: stock, IsActive: true,
	})
	require.NoError(t, err)
	return p
}

var lagos = application.ShippingInput{Street: "12 Admiralty Way", City: "Lekki", State: "Lagos"}

func TestStore_ConcurrentCheckoutOfLastUnit(t *testing.T) {
	store := openStore(t)
	logger := helpers.NewNopLogger()
	catalog := &application.CatalogService{Store: store, Logger: logger}
	carts := &application.CartService{Store: store, Logger: logger}
	orders := &application.OrderService{Store: store, Logger: logger}
	ctx := context.Background()

	p := seedProduct(t, catalog, 1)
	buyers := []*entity.User{
		seedUser(t, store, "a@x.ng", "+2348031234567"),
		seedUser(t, store, "b@x.ng", "+2348030000000"),
	}
	for _, u := range buyers {
		_, err := carts.AddItem(ctx, u.ID, p.ID, 1)
		require.NoError(t, err)
	}

	errs := make([]error, len(buyers))
	var wg sync.WaitGroup
	for i, u := range buyers {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = orders.Create(ctx, userID, application.CreateOrderInput{Shipping: lagos})
		}(i, u.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, application.ErrInsufficientStock)
	}
	assert.Equal(t, 1, succeeded)

	got, err := store.Repos().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)
}

func TestStore_CancelRestoresStock(t *testing.T) {
	store := openStore(t)
	logger := helpers.NewNopLogger()
	catalog := &application.CatalogService{Store: store, Logger: logger}
	carts := &application.CartService{Store: store, Logger: logger}
	orders := &application.OrderService{Store: store, Logger: logger}
	ctx := context.Background()

	p := seedProduct(t, catalog, 10)
	u := seedUser(t, store, "a@x.ng", "+2348031234567")
	_, err := carts.AddItem(ctx, u.ID, p.ID, 3)
	require.NoError(t, err)
	o, err := orders.Create(ctx, u.ID, application.CreateOrderInput{Shipping: lagos})
	require.NoError(t, err)

	cancelled, err := orders.Cancel(ctx, u.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, cancelled.Status)
	assert.Len(t, cancelled.Timeline, 2)

	got, err := store.Repos().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Stock)
}

func TestStore_WithTxRollsBack(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	catalog := &application.CatalogService{Store: store, Logger: helpers.NewNopLogger()}
	p := seedProduct(t, catalog, 2)

	err := store.WithTx(ctx, func(r repository.Repositories) error {
		require.NoError(t, r.Products.AdjustStock(ctx, p.ID, -2))
		return r.Products.AdjustStock(ctx, p.ID, -1)
	})
	assert.ErrorIs(t, err, repository.ErrConflict)

	got, err := store.Repos().Products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stock)
}

func TestStore_DuplicateEmail(t *testing.T) {
	store := openStore(t)
	seedUser(t, store, "a@x.ng", "+2348031234567")
	err := store.Repos().Users.Create(context.Background(), &entity.User{
		Email: "a@x.ng", Phone: "+2348030000000", Name: "Twin", Password: "x", Role: entity.RoleCustomer, IsActive: true,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestStore_TimelineFollowsServiceClock(t *testing.T) {
	store := openStore(t)
	logger := helpers.NewNopLogger()
	catalog := &application.CatalogService{Store: store, Logger: logger}
	carts := &application.CartService{Store: store, Logger: logger}
	clock := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	orders := &application.OrderService{Store: store, Logger: logger, Now: func() time.Time { return clock }}
	ctx := context.Background()

	p := seedProduct(t, catalog, 5)
	u := seedUser(t, store, "a@x.ng", "+2348031234567")
	_, err := carts.AddItem(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)
	o, err := orders.Create(ctx, u.ID, application.CreateOrderInput{Shipping: lagos})
	require.NoError(t, err)

	clock = clock.Add(time.Minute)
	_, err = orders.Cancel(ctx, u.ID, o.ID)
	require.NoError(t, err)

	got, err := orders.Track(ctx, u.ID, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Timeline, 2)
	assert.Equal(t, entity.OrderPending, got.Timeline[0].Status)
	assert.True(t, got.CreatedAt.Equal(got.Timeline[0].CreatedAt))
	assert.True(t, clock.Add(-time.Minute).Equal(got.Timeline[0].CreatedAt))
	assert.Equal(t, entity.OrderCancelled, got.Timeline[1].Status)
}
