// Package memory is an in-process repository.Store. It backs STORE_DRIVER=memory
// and the service tests. Transactions are serialised behind one lock and roll
// back by restoring a snapshot.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type state struct {
	users      map[string]entity.User
	addresses  map[string]entity.Address
	categories map[string]entity.Category
	products   map[string]entity.Product
	carts      map[string]entity.Cart
	cartItems  map[string]entity.CartItem
	orders     map[string]entity.Order
	orderItems map[string][]entity.OrderItem
	timeline   map[string][]entity.TimelineEntry
	wishlist   map[string]entity.WishlistItem
}

func newState() *state {
	return &state{
		users:      map[string]entity.User{},
		addresses:  map[string]entity.Address{},
		categories: map[string]entity.Category{},
		products:   map[string]entity.Product{},
		carts:      map[string]entity.Cart{},
		cartItems:  map[string]entity.CartItem{},
		orders:     map[string]entity.Order{},
		orderItems: map[string][]entity.OrderItem{},
		timeline:   map[string][]entity.TimelineEntry{},
		wishlist:   map[string]entity.WishlistItem{},
	}
}

func cloneMap[V any](m map[string]V, cp func(V) V) map[string]V {
	out := make(map[string]V, len(m))
	for k, v := range m {
		out[k] = cp(v)
	}
	return out
}

func same[V any](v V) V { return v }

func cloneSlice[V any](v []V) []V { return append([]V(nil), v...) }

func cloneProduct(p entity.Product) entity.Product {
	if p.CompareAtPrice != nil {
		v := *p.CompareAtPrice
		p.CompareAtPrice = &v
	}
	return p
}

func cloneOrder(o entity.Order) entity.Order {
	if o.DeliveredAt != nil {
		v := *o.DeliveredAt
		o.DeliveredAt = &v
	}
	o.Items = nil
	o.Timeline = nil
	return o
}

func (s *state) clone() *state {
	return &state{
		users:      cloneMap(s.users, same[entity.User]),
		addresses:  cloneMap(s.addresses, same[entity.Address]),
		categories: cloneMap(s.categories, same[entity.Category]),
		products:   cloneMap(s.products, cloneProduct),
		carts:      cloneMap(s.carts, same[entity.Cart]),
		cartItems:  cloneMap(s.cartItems, same[entity.CartItem]),
		orders:     cloneMap(s.orders, cloneOrder),
		orderItems: cloneMap(s.orderItems, cloneSlice[entity.OrderItem]),
		timeline:   cloneMap(s.timeline, cloneSlice[entity.TimelineEntry]),
		wishlist:   cloneMap(s.wishlist, same[entity.WishlistItem]),
	}
}

// Store keeps every table in maps guarded by one RWMutex. Values are copied in
// and out so callers never share memory with the store.
type Store struct {
	mu   sync.RWMutex
	data *state

	clockMu sync.Mutex
	last    time.Time
	// Clock defaults to time.Now. Timestamps handed out are strictly increasing.
	Clock func() time.Time
}

func NewStore() *Store {
	return &Store{data: newState(), Clock: time.Now}
}

func (s *Store) now() time.Time {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	t := s.Clock().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func newID() string { return uuid.NewString() }

// conn is shared by every repository. Outside a transaction each call takes
// the store lock itself; inside one the lock is already held by WithTx.
type conn struct {
	s  *Store
	tx bool
}

func (c conn) read(fn func(d *state) error) error {
	if !c.tx {
		c.s.mu.RLock()
		defer c.s.mu.RUnlock()
	}
	return fn(c.s.data)
}

func (c conn) write(fn func(d *state) error) error {
	if !c.tx {
		c.s.mu.Lock()
		defer c.s.mu.Unlock()
	}
	return fn(c.s.data)
}

func (s *Store) repos(tx bool) repository.Repositories {
	c := conn{s: s, tx: tx}
	return repository.Repositories{
		Users:      &UserRepository{c},
		Addresses:  &AddressRepository{c},
		Categories: &CategoryRepository{c},
		Products:   &ProductRepository{c},
		Carts:      &CartRepository{c},
		Orders:     &OrderRepository{c},
		Wishlist:   &WishlistRepository{c},
	}
}

func (s *Store) Repos() repository.Repositories { return s.repos(false) }

func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

// WithTx holds the write lock for the whole of fn, so transactions are fully
// serialised. fn must only use the repositories it is given.
func (s *Store) WithTx(ctx context.Context, fn func(r repository.Repositories) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			s.data = snapshot
			panic(p)
		}
		if err != nil {
			s.data = snapshot
		}
	}()
	return fn(s.repos(true))
}

func duplicate(constraint string) error {
	return fmt.Errorf("%w: %s", repository.ErrDuplicate, constraint)
}

var _ repository.Store = (*Store)(nil)
