package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ecommerce-api/internal/interface/middleware"
)

// DebugModule exposes expvar counters to private networks only.
type DebugModule struct {
	Redis redis.Scripter
}

func NewDebugModule(rdb redis.Scripter) *DebugModule { return &DebugModule{Redis: rdb} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", middleware.Only(middleware.AllowPrivateIP()), rl, gin.WrapH(expvar.Handler()))
}
