// Package event holds the payloads published on the order events queue and
// consumed by the notification worker.
package event

import (
	"time"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderCancelled     Type = "order.cancelled"
	OrderStatusChanged Type = "order.status_changed"
)

type OrderLine struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

type OrderEvent struct {
	Type          Type               `json:"type"`
	OrderID       string             `json:"order_id"`
	OrderNumber   string             `json:"order_number"`
	UserID        string             `json:"user_id"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	Status        entity.OrderStatus `json:"status"`
	PrevStatus    entity.OrderStatus `json:"prev_status,omitempty"`
	Note          string             `json:"note,omitempty"`
	Total         int64              `json:"total"`
	Lines         []OrderLine        `json:"lines"`
	OccurredAt    time.Time          `json:"occurred_at"`
}

// NewOrderEvent snapshots o for publishing.
func NewOrderEvent(t Type, o *entity.Order, prev entity.OrderStatus, note string, at time.Time) OrderEvent {
	lines := make([]OrderLine, 0, len(o.Items))
	for _, it := range o.Items {
		lines = append(lines, OrderLine{Name: it.ProductName, Quantity: it.Quantity, UnitPrice: it.UnitPrice, Subtotal: it.Subtotal})
	}
	return OrderEvent{
		Type:          t,
		OrderID:       o.ID,
		OrderNumber:   o.Number,
		UserID:        o.UserID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status,
		PrevStatus:    prev,
		Note:          note,
		Total:         o.Total,
		Lines:         lines,
		OccurredAt:    at.UTC(),
	}
}
