package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ecommerce-api/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-api/internal/interface/middleware"
)

type WishlistModule struct {
	Handler *handlers.WishlistHandler
	Authz   middleware.Authorizer
}

func NewWishlistModule(h *handlers.WishlistHandler, authz middleware.Authorizer) *WishlistModule {
	return &WishlistModule{Handler: h, Authz: authz}
}

func (m *WishlistModule) Register(rg *gin.RouterGroup) {
	wl := rg.Group("/wishlist")
	wl.Use(middleware.Auth(m.Authz))
	{
		wl.GET("", m.Handler.List)
		wl.POST("", m.Handler.Add)
		wl.DELETE("/items/:id", m.Handler.Remove)
	}
}
