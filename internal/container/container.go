package container

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-api/config"
	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-api/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-ecommerce-api/internal/infrastructure/postgres"
	redisinfra "github.com/oksasatya/go-ecommerce-api/internal/infrastructure/redis"
	"github.com/oksasatya/go-ecommerce-api/internal/infrastructure/search"
	"github.com/oksasatya/go-ecommerce-api/pkg/helpers"
)

// Container holds every constructed component. It is built once in main and
// handed to the router; nothing else reaches for globals.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Store    repository.Store
	Sessions repository.SessionRepository
	// Redis is nil when REDIS_ADDR is empty; rate limits then fail open.
	Redis redis.UniversalClient
	JWT   *helpers.JWTManager

	Auth     *application.AuthService
	Catalog  *application.CatalogService
	Carts    *application.CartService
	Orders   *application.OrderService
	Profile  *application.ProfileService
	Wishlist *application.WishlistService

	closers []func()
}

// New connects the configured backends and wires the services. Optional
// integrations (Elasticsearch, RabbitMQ, GCS) stay off when unconfigured.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			c.Close()
		}
	}()

	if err := c.initStore(ctx); err != nil {
		return nil, err
	}

	var cache application.Cache
	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		c.Redis = rdb
		c.Sessions = redisinfra.NewSessionRepository(rdb)
		cache = helpers.NewRedisCache(rdb, cfg.AppName+":")
	} else {
		logger.Warn("REDIS_ADDR empty; using in-process sessions and cache")
		c.Sessions = memory.NewSessionRepository()
		cache = memory.NewCache()
	}

	jwt, err := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	c.JWT = jwt

	var events application.EventPublisher
	if cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQOrderQueue)
		if err != nil {
			return nil, fmt.Errorf("rabbitmq: %w", err)
		}
		c.closers = append(c.closers, pub.Close)
		events = pub
	}

	var searcher application.ProductSearcher
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			return nil, fmt.Errorf("elasticsearch: %w", err)
		}
		idx := search.NewProductIndex(es, cfg.ESProductsIndex)
		if err := idx.EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch index not ready; search falls back to the database")
		}
		searcher = idx
	}

	var storage application.ObjectStorage
	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			return nil, fmt.Errorf("gcs: %w", err)
		}
		c.closers = append(c.closers, func() { _ = gcs.Close() })
		storage = helpers.NewGCSUploader(gcs, cfg.GCSBucket, cfg.GCSPublicBaseURL)
	}

	c.Auth = application.NewAuthService(c.Store, c.Sessions, jwt, cfg.BcryptCost, logger)
	c.Catalog = &application.CatalogService{
		Store:          c.Store,
		Cache:          cache,
		Index:          searcher,
		Storage:        storage,
		Logger:         logger,
		TrendingWindow: cfg.TrendingWindow,
		CategoryTTL:    cfg.CategoryCacheTTL,
	}
	c.Carts = &application.CartService{Store: c.Store, Logger: logger}
	c.Orders = &application.OrderService{Store: c.Store, Events: events, Logger: logger}
	c.Profile = &application.ProfileService{Store: c.Store, Storage: storage, Logger: logger}
	c.Wishlist = &application.WishlistService{Store: c.Store}

	ok = true
	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	cfg := c.Config
	if cfg.UseMemoryStore() {
		c.Logger.Warn("STORE_DRIVER=memory; data lives only as long as the process")
		c.Store = memory.NewStore()
		return nil
	}
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	c.closers = append(c.closers, pool.Close)
	if cfg.RunMigrations {
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, c.Logger); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}
	c.Store = pginfra.NewStore(pool, c.Logger)
	return nil
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
