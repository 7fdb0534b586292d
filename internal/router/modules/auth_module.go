package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ecommerce-api/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-api/internal/interface/middleware"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	Redis   redis.Scripter
	PerMin  int
}

func NewAuthModule(h *handlers.AuthHandler, rdb redis.Scripter, perMin int) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb, PerMin: perMin}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Credential endpoints share one per-IP budget per path
	limiter := middleware.RateLimit(m.Redis, m.PerMin, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/register", limiter, m.Handler.Register)
	rg.POST("/auth/login", limiter, m.Handler.Login)
	rg.POST("/auth/refresh", limiter, m.Handler.Refresh)
	rg.POST("/auth/logout", m.Handler.Logout)
}
