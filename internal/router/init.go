package router

import (
	"github.com/oksasatya/go-ecommerce-api/internal/container"
	handlers "github.com/oksasatya/go-ecommerce-api/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-api/internal/router/modules"
)

// InitModules builds the handlers from the container and adds one module per
// route group. Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	view := handlers.Presenter{Currency: cfg.CurrencySymbol}

	r.Add(
		modules.NewHealthModule(handlers.NewHealthHandler(c.Store, cfg.AppName)),
		modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Logger, view), c.Redis, cfg.RateLimitAuthPerMin),
		modules.NewCatalogModule(handlers.NewCatalogHandler(c.Catalog, view), c.Redis),
		modules.NewCartModule(handlers.NewCartHandler(c.Carts, view), c.Auth),
		modules.NewOrderModule(handlers.NewOrderHandler(c.Orders, view), c.Auth, c.Redis),
		modules.NewProfileModule(handlers.NewProfileHandler(c.Profile, view), c.Auth),
		modules.NewWishlistModule(handlers.NewWishlistHandler(c.Wishlist, view), c.Auth),
		modules.NewAdminModule(handlers.NewAdminHandler(c.Catalog, c.Orders, view), c.Auth),
	)
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
}
