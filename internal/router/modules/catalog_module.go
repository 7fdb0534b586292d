package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ecommerce-api/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-api/internal/interface/middleware"
)

// CatalogModule serves the public storefront: products and categories.
type CatalogModule struct {
	Handler *handlers.CatalogHandler
	Redis   redis.Scripter
}

func NewCatalogModule(h *handlers.CatalogHandler, rdb redis.Scripter) *CatalogModule {
	return &CatalogModule{Handler: h, Redis: rdb}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	searchLimiter := middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIP(), nil)

	products := rg.Group("/products")
	{
		products.GET("", m.Handler.ListProducts)
		products.GET("/featured", m.Handler.Featured)
		products.GET("/trending", m.Handler.Trending)
		products.GET("/search", searchLimiter, m.Handler.Search)
		products.GET("/category/:slug", m.Handler.ProductsByCategory)
		products.GET("/:id", m.Handler.GetProduct)
	}

	rg.GET("/categories", m.Handler.Categories)
	rg.GET("/categories/:slug", m.Handler.Category)
}
