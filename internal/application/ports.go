package application

import (
	"context"
	"expvar"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
)

// Cache is satisfied by helpers.RedisCache and memory.Cache.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// EventPublisher is satisfied by helpers.RabbitPublisher.
type EventPublisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// ProductSearcher is satisfied by search.ProductIndex.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, q string, limit, offset int) ([]string, int, error)
	IndexProduct(ctx context.Context, p *entity.Product) error
}

// ObjectStorage is satisfied by helpers.GCSUploader.
type ObjectStorage interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination is 1-based. Out of range values are clamped.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Pagination) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

type Page[T any] struct {
	Items []T
	Total int
	Page  int
	Limit int
}

func newPage[T any](items []T, total int, p Pagination) Page[T] {
	p = p.Normalize()
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit}
}

// validID filters malformed ids before they reach storage; inside a Postgres
// transaction a cast failure would poison the rest of it.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

var (
	ordersCreated   = expvar.NewInt("orders_created_total")
	ordersCancelled = expvar.NewInt("orders_cancelled_total")
)
