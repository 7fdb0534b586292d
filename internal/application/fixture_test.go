package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/infrastructure/memory"
	"github.com/oksasatya/go-ecommerce-api/pkg/helpers"
)

type fixture struct {
	store    *memory.Store
	sessions *memory.SessionRepository
	jwt      *helpers.JWTManager
	clock    time.Time

	auth     *application.AuthService
	catalog  *application.CatalogService
	carts    *application.CartService
	orders   *application.OrderService
	profile  *application.ProfileService
	wishlist *application.WishlistService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    memory.NewStore(),
		sessions: memory.NewSessionRepository(),
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	now := func() time.Time { return f.clock }

	jwt, err := helpers.NewJWTManager("test-secret", "HS256", "", 30*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	jwt.Now = now
	f.jwt = jwt
	f.sessions.Clock = now

	logger := helpers.NewNopLogger()
	f.auth = application.NewAuthService(f.store, f.sessions, jwt, bcrypt.MinCost, logger)
	f.catalog = &application.CatalogService{Store: f.store, Logger: logger, TrendingWindow: 7 * 24 * time.Hour}
	f.carts = &application.CartService{Store: f.store, Logger: logger}
	f.orders = &application.OrderService{Store: f.store, Logger: logger}
	f.profile = &application.ProfileService{Store: f.store, Logger: logger}
	f.wishlist = &application.WishlistService{Store: f.store}
	return f
}

func (f *fixture) advance(d time.Duration) { f.clock = f.clock.Add(d) }

func (f *fixture) user(t *testing.T, email, phone string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Phone: phone, Name: "Ada Obi", Password: "x", Role: entity.RoleCustomer, IsActive: true}
	require.NoError(t, f.store.Repos().Users.Create(context.Background(), u))
	return u
}

func (f *fixture) category(t *testing.T, slug string) *entity.Category {
	t.Helper()
	c := &entity.Category{Slug: slug, Name: slug, IsActive: true}
	require.NoError(t, f.store.Repos().Categories.Upsert(context.Background(), c))
	return c
}

func (f *fixture) product(t *testing.T, cat *entity.Category, name string, price int64, stock int) *entity.Product {
	t.Helper()
	p, err := f.catalog.CreateProduct(context.Background(), application.ProductInput{
		CategoryID: cat.ID,
		Name:       name,
		Price:      price,
		Stock:      stock,
		IsActive:   true,
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.store.Repos().Products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

var lagos = application.ShippingInput{Street: "12 Admiralty Way", City: "Lekki", State: "Lagos"}
