package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/event"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
	"github.com/oksasatya/go-ecommerce-api/pkg/helpers"
)

const (
	notePlaced            = "Order placed successfully"
	noteCancelledCustomer = "Order cancelled by customer"
)

var defaultStatusNotes = map[entity.OrderStatus]string{
	entity.OrderProcessing: "Order is being processed",
	entity.OrderShipped:    "Order has been shipped",
	entity.OrderDelivered:  "Order delivered",
	entity.OrderCancelled:  "Order cancelled",
}

// OrderService runs checkout and the order state machine. Every write that
// touches stock happens inside one store transaction.
type OrderService struct {
	Store  repository.Store
	Events EventPublisher
	Logger *logrus.Logger
	Now    func() time.Time
}

func (s *OrderService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// ShippingInput either references a saved address or carries one inline.
type ShippingInput struct {
	AddressID string
	Label     string
	Street    string
	City      string
	State     string
	Landmark  string
}

type CreateOrderInput struct {
	Shipping ShippingInput
	Note     string
}

func resolveShipping(ctx context.Context, r repository.Repositories, userID string, in ShippingInput) (entity.ShippingAddress, error) {
	if in.AddressID != "" {
		if !validID(in.AddressID) {
			return entity.ShippingAddress{}, ErrAddressNotFound
		}
		a, err := r.Addresses.Get(ctx, userID, in.AddressID)
		if err != nil {
			return entity.ShippingAddress{}, notFoundAs(err, ErrAddressNotFound)
		}
		return a.Snapshot(), nil
	}
	ship := entity.ShippingAddress{
		Label:    strings.TrimSpace(in.Label),
		Street:   strings.TrimSpace(in.Street),
		City:     strings.TrimSpace(in.City),
		State:    strings.TrimSpace(in.State),
		Landmark: strings.TrimSpace(in.Landmark),
	}
	fields := map[string][]string{}
	if ship.Street == "" {
		fields["shipping_address.street"] = []string{"is required"}
	}
	if ship.City == "" {
		fields["shipping_address.city"] = []string{"is required"}
	}
	if ship.State == "" {
		fields["shipping_address.state"] = []string{"is required"}
	}
	if len(fields) > 0 {
		return entity.ShippingAddress{}, apperror.Validation("shipping address is incomplete", fields)
	}
	return ship, nil
}

// Create turns the caller's cart into a pending order. Products are locked in
// id order, checked, priced and decremented; the order, its items and the
// first timeline entry are written and the cart is emptied, all or nothing.
func (s *OrderService) Create(ctx context.Context, userID string, in CreateOrderInput) (*entity.Order, error) {
	var order *entity.Order
	err := s.Store.WithTx(ctx, func(r repository.Repositories) error {
		u, err := r.Users.GetByID(ctx, userID)
		if err != nil {
			return notFoundAs(err, ErrUserNotFound)
		}
		ship, err := resolveShipping(ctx, r, userID, in.Shipping)
		if err != nil {
			return err
		}
		cart, err := r.Carts.Lock(ctx, userID)
		if err != nil {
			return internal(err)
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		ids := make([]string, 0, len(cart.Items))
		for _, it := range cart.Items {
			ids = append(ids, it.ProductID)
		}
		sort.Strings(ids)
		products, err := r.Products.LockByIDs(ctx, ids)
		if err != nil {
			return internal(err)
		}

		placedAt := s.now()
		o := &entity.Order{
			Number:        helpers.GenOrderNumber(placedAt),
			UserID:        u.ID,
			Status:        entity.OrderPending,
			Shipping:      ship,
			CustomerName:  u.Name,
			CustomerEmail: u.Email,
			CustomerPhone: u.Phone,
			CustomerNote:  strings.TrimSpace(in.Note),
			CreatedAt:     placedAt,
			UpdatedAt:     placedAt,
		}
		for _, it := range cart.Items {
			p, ok := products[it.ProductID]
			if !ok || !p.IsActive {
				return ErrProductInactive.WithMessage("a product in your cart is no longer available")
			}
			if p.Stock < it.Quantity {
				return insufficientStock(p.Name, p.Stock)
			}
			sub := p.Price * int64(it.Quantity)
			o.Items = append(o.Items, entity.OrderItem{
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductImage: p.ImageURL,
				UnitPrice:    p.Price,
				Quantity:     it.Quantity,
				Subtotal:     sub,
			})
			o.Total += sub
		}

		for _, it := range o.Items {
			if err := r.Products.AdjustStock(ctx, it.ProductID, -it.Quantity); err != nil {
				if errors.Is(err, repository.ErrConflict) {
					return insufficientStock(it.ProductName, 0)
				}
				return internal(err)
			}
		}
		if err := r.Orders.Create(ctx, o); err != nil {
			return internal(err)
		}
		entry := &entity.TimelineEntry{OrderID: o.ID, Status: entity.OrderPending, Note: notePlaced, CreatedAt: o.CreatedAt}
		if err := r.Orders.AppendTimeline(ctx, entry); err != nil {
			return internal(err)
		}
		if err := r.Carts.Clear(ctx, cart.ID); err != nil {
			return internal(err)
		}
		o.Timeline = []entity.TimelineEntry{*entry}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	ordersCreated.Add(1)
	helpers.LogInfo(s.Logger, "order created", logrus.Fields{
		"order_id": order.ID, "order_number": order.Number, "user_id": userID, "total": order.Total,
	})
	s.publish(ctx, event.OrderCreated, order, "", notePlaced)
	return order, nil
}

// transition moves o to next, restoring stock on cancellation, and appends
// exactly one timeline entry. It returns the previous status.
func (s *OrderService) transition(ctx context.Context, r repository.Repositories, o *entity.Order, next entity.OrderStatus, note string) (entity.OrderStatus, error) {
	prev := o.Status
	if !prev.CanTransitionTo(next) {
		return prev, ErrInvalidTransition.WithMessage(fmt.Sprintf("cannot change order from %s to %s", prev, next))
	}
	if next == entity.OrderCancelled {
		for _, it := range o.Items {
			if it.ProductID == "" {
				continue
			}
			err := r.Products.AdjustStock(ctx, it.ProductID, it.Quantity)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return prev, internal(err)
			}
		}
	}
	at := s.now()
	if err := r.Orders.UpdateStatus(ctx, o.ID, next, at); err != nil {
		return prev, notFoundAs(err, ErrOrderNotFound)
	}
	if note == "" {
		note = defaultStatusNotes[next]
	}
	if err := r.Orders.AppendTimeline(ctx, &entity.TimelineEntry{OrderID: o.ID, Status: next, Note: note, CreatedAt: at}); err != nil {
		return prev, internal(err)
	}
	return prev, nil
}

// Cancel lets the owner cancel a pending or processing order.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	if !validID(orderID) {
		return nil, ErrOrderNotFound
	}
	var prev entity.OrderStatus
	err := s.Store.WithTx(ctx, func(r repository.Repositories) error {
		if _, err := r.Orders.Get(ctx, userID, orderID); err != nil {
			return notFoundAs(err, ErrOrderNotFound)
		}
		o, err := r.Orders.Lock(ctx, orderID)
		if err != nil {
			return notFoundAs(err, ErrOrderNotFound)
		}
		prev, err = s.transition(ctx, r, o, entity.OrderCancelled, noteCancelledCustomer)
		return err
	})
	if err != nil {
		return nil, err
	}
	o, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	ordersCancelled.Add(1)
	helpers.LogInfo(s.Logger, "order cancelled", logrus.Fields{"order_id": o.ID, "user_id": userID})
	s.publish(ctx, event.OrderCancelled, o, prev, noteCancelledCustomer)
	return o, nil
}

// UpdateStatus is the admin path through the state machine.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, next entity.OrderStatus, note string) (*entity.Order, error) {
	if !next.Valid() {
		return nil, apperror.Validation("invalid status", map[string][]string{"status": {"must be a valid order status"}})
	}
	if !validID(orderID) {
		return nil, ErrOrderNotFound
	}
	var prev entity.OrderStatus
	err := s.Store.WithTx(ctx, func(r repository.Repositories) error {
		o, err := r.Orders.Lock(ctx, orderID)
		if err != nil {
			return notFoundAs(err, ErrOrderNotFound)
		}
		prev, err = s.transition(ctx, r, o, next, strings.TrimSpace(note))
		return err
	})
	if err != nil {
		return nil, err
	}
	o, err := s.Get(ctx, "", orderID)
	if err != nil {
		return nil, err
	}
	typ := event.OrderStatusChanged
	if next == entity.OrderCancelled {
		typ = event.OrderCancelled
		ordersCancelled.Add(1)
	}
	helpers.LogInfo(s.Logger, "order status changed", logrus.Fields{"order_id": o.ID, "from": prev, "to": next})
	s.publish(ctx, typ, o, prev, lastNote(o))
	return o, nil
}

func lastNote(o *entity.Order) string {
	if len(o.Timeline) == 0 {
		return ""
	}
	return o.Timeline[len(o.Timeline)-1].Note
}

// Get returns the order with items and timeline. An empty userID skips the
// ownership check (admin).
func (s *OrderService) Get(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	if !validID(orderID) {
		return nil, ErrOrderNotFound
	}
	o, err := s.Store.Repos().Orders.Get(ctx, userID, orderID)
	if err != nil {
		return nil, notFoundAs(err, ErrOrderNotFound)
	}
	return o, nil
}

// Track returns the order with its timeline in chronological order.
func (s *OrderService) Track(ctx context.Context, userID, orderID string) (*entity.Order, error) {
	return s.Get(ctx, userID, orderID)
}

func (s *OrderService) List(ctx context.Context, userID string, status entity.OrderStatus, pg Pagination) (Page[entity.Order], error) {
	if status != "" && !status.Valid() {
		return Page[entity.Order]{}, apperror.Validation("invalid status", map[string][]string{"status": {"must be a valid order status"}})
	}
	pg = pg.Normalize()
	items, total, err := s.Store.Repos().Orders.List(ctx, repository.OrderFilter{
		UserID: userID,
		Status: status,
		Limit:  pg.Limit,
		Offset: pg.Offset(),
	})
	if err != nil {
		return Page[entity.Order]{}, internal(err)
	}
	return newPage(items, total, pg), nil
}

// ListAll is List across every customer.
func (s *OrderService) ListAll(ctx context.Context, status entity.OrderStatus, pg Pagination) (Page[entity.Order], error) {
	return s.List(ctx, "", status, pg)
}

// publish runs after commit; failures are only logged.
func (s *OrderService) publish(ctx context.Context, typ event.Type, o *entity.Order, prev entity.OrderStatus, note string) {
	if s.Events == nil {
		return
	}
	ev := event.NewOrderEvent(typ, o, prev, note, s.now())
	if err := s.Events.PublishJSON(ctx, string(typ), ev); err != nil {
		helpers.LogError(s.Logger, "publish order event failed", err, logrus.Fields{"order_id": o.ID, "type": typ})
	}
}
