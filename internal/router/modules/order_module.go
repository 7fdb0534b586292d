package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ecommerce-api/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-api/internal/interface/middleware"
)

type OrderModule struct {
	Handler *handlers.OrderHandler
	Authz   middleware.Authorizer
	Redis   redis.Scripter
}

func NewOrderModule(h *handlers.OrderHandler, authz middleware.Authorizer, rdb redis.Scripter) *OrderModule {
	return &OrderModule{Handler: h, Authz: authz, Redis: rdb}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.Use(middleware.Auth(m.Authz))
	{
		// checkout is the expensive path; cap it per user
		checkout := middleware.RateLimit(m.Redis, 20, time.Minute, middleware.KeyByUserID(), nil)
		orders.POST("", checkout, m.Handler.Create)
		orders.GET("", m.Handler.List)
		orders.GET("/:id", m.Handler.Get)
		orders.POST("/:id/cancel", m.Handler.Cancel)
		orders.GET("/:id/track", m.Handler.Track)
	}
}
