package repository

import (
	"context"
	"time"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
)

type OrderFilter struct {
	// UserID empty lists every user's orders (admin).
	UserID string
	Status entity.OrderStatus
	Limit  int
	Offset int
}

type OrderRepository interface {
	// Create inserts the order row and its items, filling generated ids.
	// A zero CreatedAt is stamped by the store.
	Create(ctx context.Context, o *entity.Order) error
	// Get returns the order with items and timeline. A non-empty userID scopes
	// the lookup to that owner.
	Get(ctx context.Context, userID, id string) (*entity.Order, error)
	// Lock selects the order FOR UPDATE with its items.
	Lock(ctx context.Context, id string) (*entity.Order, error)
	// List is newest first and returns the total before paging.
	List(ctx context.Context, f OrderFilter) ([]entity.Order, int, error)
	UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, at time.Time) error
	AppendTimeline(ctx context.Context, e *entity.TimelineEntry) error
	Timeline(ctx context.Context, orderID string) ([]entity.TimelineEntry, error)
}
