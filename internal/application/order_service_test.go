package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/event"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-api/internal/infrastructure/memory"
)

type publisherMock struct{ mock.Mock }

func (m *publisherMock) PublishJSON(ctx context.Context, msgType string, body any) error {
	return m.Called(ctx, msgType, body).Error(0)
}

// failingOrders breaks Orders.Create after stock has already been decremented.
type failingOrders struct{ repository.OrderRepository }

func (failingOrders) Create(context.Context, *entity.Order) error { return errors.New("disk full") }

type faultyStore struct{ *memory.Store }

func (s faultyStore) WithTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	return s.Store.WithTx(ctx, func(r repository.Repositories) error {
		r.Orders = failingOrders{r.Orders}
		return fn(r)
	})
}

func TestCreateOrder_Success(t *testing.T) {
	f := newFixture(t)
	pub := &publisherMock{}
	pub.On("PublishJSON", mock.Anything, string(event.OrderCreated), mock.AnythingOfType("event.OrderEvent")).Return(nil).Once()
	f.orders.Events = pub

	u := f.user(t, "a@x.ng", "+2348031234567")
	cat := f.category(t, "shoes")
	a := f.product(t, cat, "Runner", 5000, 5)
	b := f.product(t, cat, "Loafer", 12000, 2)
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, u.ID, a.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, u.ID, b.ID, 1)
	require.NoError(t, err)

	o, err := f.orders.Create(ctx, u.ID, application.CreateOrderInput{Shipping: lagos, Note: "Call on arrival"})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderPending, o.Status)
	assert.Regexp(t, `^JM\d{8}[0-9A-F]{6}$`, o.Number)
	assert.EqualValues(t, 22000, o.Total)
	assert.Equal(t, o.ItemsTotal(), o.Total)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, "Lekki", o.Shipping.City)
	assert.Equal(t, u.Email, o.CustomerEmail)
	require.Len(t, o.Timeline, 1)
	assert.Equal(t, "Order placed successfully", o.Timeline[0].Note)

	assert.Equal(t, 3, f.stock(t, a.ID))
	assert.Equal(t, 1, f.stock(t, b.ID))

	view, err := f.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Lines)
	pub.AssertExpectations(t)
}

func TestCreateOrder_EmptyCart(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.ng", "+2348031234567")

	_, err := f.orders.Create(context.Background(), u.ID, application.CreateOrderInput{Shipping: lagos})
	assert.ErrorIs(t, err, application.ErrEmptyCart)
}

func TestCreateOrder_FromSavedAddress(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.ng", "+2348031234567")
	p := f.product(t, f.category(t, "shoes"), "Runner", 5000, 5)
	ctx := context.Background()

	addr, err := f.profile.CreateAddress(ctx, u.ID, application.AddressInput{Label: "Home", Street: "3 Awolowo Rd", City: "Ikoyi", State: "Lagos"})
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, u.ID, p.ID, 1)
	require.NoError(t, err)

	o, err := f.orders.Create(ctx, u.ID, application.CreateOrderInput{Shipping: application.ShippingInput{AddressID: addr.ID}})
	require.NoError(t, err)

	// later edits to the address book do not reach the order
	_, err = f.profile.UpdateAddress(ctx, u.ID, addr.ID, application.AddressInput{Street: "9 Bourdillon", City: "Ikoyi", State: "Lagos"})
	require.NoError(t, err)
	got, err := f.orders.Get(ctx, u.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "3 Awolowo Rd", got.Shipping.Street)
}

func TestCreateOrder_AtomicWhenOrderInsertFails(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.ng", "+2348031234567")
	p := f.product(t, f.category(t, "shoes"), "Runner", 5000, 5)
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)

	broken := &application.OrderService{Store: faultyStore{f.store}}
	_, err = broken.Create(ctx, u.ID, application.CreateOrderInput{Shipping: lagos})
	require.Error(t, err)

	assert.Equal(t, 5, f.stock(t, p.ID))
	view, err := f.carts.GetCart(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Item.Quantity)
	page, err := f.orders.List(ctx, u.ID, "", application.Pagination{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestCreateOrder_PriceAtPurchase(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.ng", "+2348031234567")
	p := f.product(t, f.category(t, "shoes"), "Runner", 5000, 5)
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, u.ID, p.ID, 2)
	require.NoError(t, err)
	o, err := f.orders.Create(ctx, u.ID, application.CreateOrderInput{Shipping: lagos})
	require.NoError(t, err)

	price := int64(9900)
	_, err = f.catalog.UpdateProduct(ctx, p.ID, application.ProductPatch{Price: &price})
	require.NoError(t, err)

	got, err := f.orders.Get(ctx, u.ID, o.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5000, got.Items[0].UnitPrice)
	assert.EqualValues(t, 10000, got.Total)
}

func TestCreateOrder_ConcurrentCheckoutOfLastUnit(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, f.category(t, "shoes"), "Runner", 5000, 1)
	ctx := context.Background()
	buyers := []*entity.User{
		f.user(t, "a@x.ng", "+2348031234567"),
		f.user(t, "b@x.ng", "+2348030000000"),
	}
	for _, u := range buyers {
		_, err := f.carts.AddItem(ctx, u.ID, p.ID, 1)
		require.NoError(t, err)
	}

	errs := make([]error, len(buyers))
	var wg sync.WaitGroup
	for i, u := range buyers {
		wg.Add(1)
		go func(i int, userID string) {
			defer wg.Done()
			_, errs[i] = f.orders.Create(ctx, userID, application.CreateOrderInput{Shipping: lagos})
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
	assert.Equal(t, 0, f.stock(t, p.ID))
}

func placeOrder(t *testing.T, f *fixture, qty int) (*entity.User, *entity.Product, *entity.Order) {
	t.Helper()
	u := f.user(t, "a@x.ng", "+2348031234567")
	p := f.product(t, f.category(t, "shoes"), "Runner", 5000, 10)
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, u.ID, p.ID, qty)
	require.NoError(t, err)
	o, err := f.orders.Create(ctx, u.ID, application.CreateOrderInput{Shipping: lagos})
	require.NoError(t, err)
	return u, p, o
}

func TestCancelOrder_RestoresStockAndAppendsOneEntry(t *testing.T) {
	f := newFixture(t)
	u, p, o := placeOrder(t, f, 3)
	require.Equal(t, 7, f.stock(t, p.ID))

	got, err := f.orders.Cancel(context.Background(), u.ID, o.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.OrderCancelled, got.Status)
	assert.Equal(t, 10, f.stock(t, p.ID))
	require.Len(t, got.Timeline, 2)
	assert.Equal(t, entity.OrderCancelled, got.Timeline[1].Status)
	assert.Equal(t, "Order cancelled by customer", got.Timeline[1].Note)

	_, err = f.orders.Cancel(context.Background(), u.ID, o.ID)
	assert.ErrorIs(t, err, application.ErrInvalidTransition)
	assert.Equal(t, 10, f.stock(t, p.ID))
}

func TestOrderTimeline_UsesServiceClock(t *testing.T) {
	f := newFixture(t)
	f.store.Clock = func() time.Time { return f.clock.Add(time.Hour) }
	f.orders.Now = func() time.Time { return f.clock }
	placed := f.clock
	u, _, o := placeOrder(t, f, 1)
	assert.True(t, placed.Equal(o.CreatedAt))

	f.advance(10 * time.Minute)
	_, err := f.orders.Cancel(context.Background(), u.ID, o.ID)
	require.NoError(t, err)

	got, err := f.orders.Track(context.Background(), u.ID, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Timeline, 2)
	assert.Equal(t, entity.OrderPending, got.Timeline[0].Status)
	assert.True(t, placed.Equal(got.Timeline[0].CreatedAt))
	assert.Equal(t, entity.OrderCancelled, got.Timeline[1].Status)
	assert.True(t, placed.Add(10*time.Minute).Equal(got.Timeline[1].CreatedAt))
}

func TestCancelOrder_DeliveredIsInvalidTransition(t *testing.T) {
	f := newFixture(t)
	u, p, o := placeOrder(t, f, 2)
	ctx := context.Background()
	for _, next := range []entity.OrderStatus{entity.OrderProcessing, entity.OrderShipped, entity.OrderDelivered} {
		_, err := f.orders.UpdateStatus(ctx, o.ID, next, "")
		require.NoError(t, err)
	}

	_, err := f.orders.Cancel(ctx, u.ID, o.ID)
	assert.ErrorIs(t, err, application.ErrInvalidTransition)
	assert.Equal(t, 8, f.stock(t, p.ID))

	got, err := f.orders.Get(ctx, u.ID, o.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderDelivered, got.Status)
	assert.NotNil(t, got.DeliveredAt)
	assert.Len(t, got.Timeline, 4)
}

func TestCancelOrder_ForeignOrderIsNotFound(t *testing.T) {
	f := newFixture(t)
	_, _, o := placeOrder(t, f, 1)
	stranger := f.user(t, "z@x.ng", "+2348039999999")

	_, err := f.orders.Cancel(context.Background(), stranger.ID, o.ID)
	assert.ErrorIs(t, err, application.ErrOrderNotFound)
	_, err = f.orders.Track(context.Background(), stranger.ID, o.ID)
	assert.ErrorIs(t, err, application.ErrOrderNotFound)
}

func TestUpdateStatus_FollowsTable(t *testing.T) {
	f := newFixture(t)
	_, p, o := placeOrder(t, f, 2)
	ctx := context.Background()

	_, err := f.orders.UpdateStatus(ctx, o.ID, entity.OrderShipped, "")
	assert.ErrorIs(t, err, application.ErrInvalidTransition)

	_, err = f.orders.UpdateStatus(ctx, o.ID, entity.OrderProcessing, "Packed")
	require.NoError(t, err)

	got, err := f.orders.UpdateStatus(ctx, o.ID, entity.OrderCancelled, "")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderCancelled, got.Status)
	assert.Equal(t, 10, f.stock(t, p.ID))

	_, err = f.orders.UpdateStatus(ctx, o.ID, "returned", "")
	assert.Error(t, err)
}

func TestListOrders_NewestFirstAndFiltered(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "a@x.ng", "+2348031234567")
	p := f.product(t, f.category(t, "shoes"), "Runner", 5000, 10)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		_, err := f.carts.AddItem(ctx, u.ID, p.ID, 1)
		require.NoError(t, err)
		o, err := f.orders.Create(ctx, u.ID, application.CreateOrderInput{Shipping: lagos})
		require.NoError(t, err)
		ids = append(ids, o.ID)
	}
	_, err := f.orders.Cancel(ctx, u.ID, ids[0])
	require.NoError(t, err)

	page, err := f.orders.List(ctx, u.ID, "", application.Pagination{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ids[2], page.Items[0].ID)
	assert.Equal(t, ids[1], page.Items[1].ID)

	page, err = f.orders.List(ctx, u.ID, entity.OrderCancelled, application.Pagination{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[0], page.Items[0].ID)
}
