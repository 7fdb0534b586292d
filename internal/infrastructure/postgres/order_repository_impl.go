package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type OrderRepository struct {
	db DBTX
}

const orderColumns = `id, order_number, user_id, status, total,
	shipping_label, shipping_street, shipping_city, shipping_state, shipping_landmark,
	customer_name, customer_email, customer_phone, customer_note,
	created_at, updated_at, delivered_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (*entity.Order, error) {
	o := &entity.Order{}
	if err := row.Scan(&o.ID, &o.Number, &o.UserID, &o.Status, &o.Total,
		&o.Shipping.Label, &o.Shipping.Street, &o.Shipping.City, &o.Shipping.State, &o.Shipping.Landmark,
		&o.CustomerName, &o.CustomerEmail, &o.CustomerPhone, &o.CustomerNote,
		&o.CreatedAt, &o.UpdatedAt, &o.DeliveredAt); err != nil {
		return nil, mapErr(err)
	}
	return o, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	var createdAt *time.Time
	if !o.CreatedAt.IsZero() {
		createdAt = &o.CreatedAt
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO orders (order_number, user_id, status, total,
		                    shipping_label, shipping_street, shipping_city, shipping_state, shipping_landmark,
		                    customer_name, customer_email, customer_phone, customer_note,
		                    created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
		        COALESCE($14::timestamptz, now()), COALESCE($14::timestamptz, now()))
		RETURNING id, created_at, updated_at
	`, o.Number, o.UserID, o.Status, o.Total,
		o.Shipping.Label, o.Shipping.Street, o.Shipping.City, o.Shipping.State, o.Shipping.Landmark,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.CustomerNote, createdAt,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}

	for i := range o.Items {
		it := &o.Items[i]
		it.OrderID = o.ID
		err := r.db.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, product_name, product_image, unit_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, o.ID, nullable(it.ProductID), it.ProductName, it.ProductImage, it.UnitPrice, it.Quantity, it.Subtotal).Scan(&it.ID)
		if err != nil {
			return mapErr(err)
		}
	}
	return nil
}

// itemsFor loads the lines of every order in ids, keyed by order id.
func (r *OrderRepository) itemsFor(ctx context.Context, ids []string) (map[string][]entity.OrderItem, error) {
	out := make(map[string][]entity.OrderItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_id, product_name, product_image, unit_price, quantity, subtotal
		FROM order_items
		WHERE order_id = ANY($1::text[]::uuid[])
		ORDER BY order_id, product_name, id
	`, ids)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			it        entity.OrderItem
			productID *string
		)
		if err := rows.Scan(&it.ID, &it.OrderID, &productID, &it.ProductName, &it.ProductImage,
			&it.UnitPrice, &it.Quantity, &it.Subtotal); err != nil {
			return nil, mapErr(err)
		}
		if productID != nil {
			it.ProductID = *productID
		}
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out, mapErr(rows.Err())
}

func (r *OrderRepository) attachItems(ctx context.Context, o *entity.Order) error {
	items, err := r.itemsFor(ctx, []string{o.ID})
	if err != nil {
		return err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []entity.OrderItem{}
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, userID, id string) (*entity.Order, error) {
	var (
		o   *entity.Order
		err error
	)
	if userID == "" {
		o, err = scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	} else {
		o, err = scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, id, userID))
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, o); err != nil {
		return nil, err
	}
	if o.Timeline, err = r.Timeline(ctx, o.ID); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) Lock(ctx context.Context, id string) (*entity.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) List(ctx context.Context, f repository.OrderFilter) ([]entity.Order, int, error) {
	where := " WHERE TRUE"
	var args []any
	if f.UserID != "" {
		args = append(args, f.UserID)
		where += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, mapErr(err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit, f.Offset)
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders`+where+
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer rows.Close()

	orders := []entity.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, mapErr(err)
	}
	rows.Close()

	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}
	items, err := r.itemsFor(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []entity.OrderItem{}
		}
	}
	return orders, total, nil
}

// UpdateStatus stamps delivered_at when the order reaches delivered.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status entity.OrderStatus, at time.Time) error {
	res, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $2,
		    updated_at = $3,
		    delivered_at = CASE WHEN $2 = 'delivered' THEN $3 ELSE delivered_at END
		WHERE id = $1
	`, id, string(status), at)
	if err != nil {
		return mapErr(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OrderRepository) AppendTimeline(ctx context.Context, e *entity.TimelineEntry) error {
	if e.CreatedAt.IsZero() {
		return mapErr(r.db.QueryRow(ctx, `
			INSERT INTO order_timeline (order_id, status, note) VALUES ($1, $2, $3)
			RETURNING id, created_at
		`, e.OrderID, string(e.Status), e.Note).Scan(&e.ID, &e.CreatedAt))
	}
	return mapErr(r.db.QueryRow(ctx, `
		INSERT INTO order_timeline (order_id, status, note, created_at) VALUES ($1, $2, $3, $4)
		RETURNING id
	`, e.OrderID, string(e.Status), e.Note, e.CreatedAt).Scan(&e.ID))
}

func (r *OrderRepository) Timeline(ctx context.Context, orderID string) ([]entity.TimelineEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, status, note, created_at FROM order_timeline
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC
	`, orderID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := []entity.TimelineEntry{}
	for rows.Next() {
		var e entity.TimelineEntry
		if err := rows.Scan(&e.ID, &e.OrderID, &e.Status, &e.Note, &e.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, e)
	}
	return out, mapErr(rows.Err())
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
