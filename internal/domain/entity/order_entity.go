package entity

import (
	"time"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

var allowedTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

func (s OrderStatus) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) Cancellable() bool { return s.CanTransitionTo(OrderCancelled) }

func (s OrderStatus) Terminal() bool { return len(allowedTransitions[s]) == 0 }

// ShippingAddress is a copy of an Address taken at checkout; later edits to the
// address book never reach it.
type ShippingAddress struct {
	Label    string
	Street   string
	City     string
	State    string
	Landmark string
}

func (a Address) Snapshot() ShippingAddress {
	return ShippingAddress{Label: a.Label, Street: a.Street, City: a.City, State: a.State, Landmark: a.Landmark}
}

type Order struct {
	ID            string
	Number        string
	UserID        string
	Status        OrderStatus
	Total         int64
	Shipping      ShippingAddress
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	CustomerNote  string
	Items         []OrderItem
	Timeline      []TimelineEntry
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeliveredAt   *time.Time
}

// OrderItem is immutable once written. UnitPrice is the product price at checkout.
type OrderItem struct {
	ID           string
	OrderID      string
	ProductID    string
	ProductName  string
	ProductImage string
	UnitPrice    int64
	Quantity     int
	Subtotal     int64
}

type TimelineEntry struct {
	ID        string
	OrderID   string
	Status    OrderStatus
	Note      string
	CreatedAt time.Time
}

// ItemsTotal sums line subtotals.
func (o *Order) ItemsTotal() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.Subtotal
	}
	return total
}

func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}
