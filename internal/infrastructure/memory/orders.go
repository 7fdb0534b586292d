package memory

import (
	"context"
	"sort"
	"time"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type OrderRepository struct{ conn }

func (r *OrderRepository) Create(_ context.Context, o *entity.Order) error {
	return r.write(func(d *state) error {
		for _, other := range d.orders {
			if other.Number == o.Number {
				return duplicate("orders_order_number_key")
			}
		}
		o.ID = newID()
		if o.CreatedAt.IsZero() {
			o.CreatedAt = r.s.now()
		}
		o.UpdatedAt = o.CreatedAt
		items := make([]entity.OrderItem, len(o.Items))
		for i := range o.Items {
			o.Items[i].ID = newID()
			o.Items[i].OrderID = o.ID
			items[i] = o.Items[i]
		}
		d.orders[o.ID] = cloneOrder(*o)
		d.orderItems[o.ID] = items
		return nil
	})
}

func withItems(d *state, o entity.Order) *entity.Order {
	o = cloneOrder(o)
	o.Items = cloneSlice(d.orderItems[o.ID])
	if o.Items == nil {
		o.Items = []entity.OrderItem{}
	}
	return &o
}

func (r *OrderRepository) Get(_ context.Context, userID, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.read(func(d *state) error {
		o, ok := d.orders[id]
		if !ok || (userID != "" && o.UserID != userID) {
			return repository.ErrNotFound
		}
		out = withItems(d, o)
		out.Timeline = timelineOf(d, id)
		return nil
	})
	return out, err
}

func (r *OrderRepository) Lock(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.read(func(d *state) error {
		o, ok := d.orders[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = withItems(d, o)
		return nil
	})
	return out, err
}

func (r *OrderRepository) List(_ context.Context, f repository.OrderFilter) ([]entity.Order, int, error) {
	var all []entity.Order
	err := r.read(func(d *state) error {
		for _, o := range d.orders {
			if f.UserID != "" && o.UserID != f.UserID {
				continue
			}
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			all = append(all, *withItems(d, o))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *OrderRepository) UpdateStatus(_ context.Context, id string, status entity.OrderStatus, at time.Time) error {
	return r.write(func(d *state) error {
		o, ok := d.orders[id]
		if !ok {
			return repository.ErrNotFound
		}
		o.Status = status
		o.UpdatedAt = at
		if status == entity.OrderDelivered {
			t := at
			o.DeliveredAt = &t
		}
		d.orders[id] = o
		return nil
	})
}

func (r *OrderRepository) AppendTimeline(_ context.Context, e *entity.TimelineEntry) error {
	return r.write(func(d *state) error {
		if _, ok := d.orders[e.OrderID]; !ok {
			return repository.ErrConflict
		}
		e.ID = newID()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = r.s.now()
		}
		d.timeline[e.OrderID] = append(d.timeline[e.OrderID], *e)
		return nil
	})
}

func timelineOf(d *state, orderID string) []entity.TimelineEntry {
	out := cloneSlice(d.timeline[orderID])
	if out == nil {
		out = []entity.TimelineEntry{}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *OrderRepository) Timeline(_ context.Context, orderID string) ([]entity.TimelineEntry, error) {
	var out []entity.TimelineEntry
	err := r.read(func(d *state) error {
		out = timelineOf(d, orderID)
		return nil
	})
	return out, err
}
