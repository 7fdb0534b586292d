package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ecommerce-api/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-api/internal/interface/middleware"
)

type CartModule struct {
	Handler *handlers.CartHandler
	Authz   middleware.Authorizer
}

func NewCartModule(h *handlers.CartHandler, authz middleware.Authorizer) *CartModule {
	return &CartModule{Handler: h, Authz: authz}
}

func (m *CartModule) Register(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	cart.Use(middleware.Auth(m.Authz))
	{
		cart.GET("", m.Handler.GetCart)
		cart.POST("/items", m.Handler.AddItem)
		cart.PUT("/items/:id", m.Handler.UpdateItem)
		cart.DELETE("/items/:id", m.Handler.RemoveItem)
		cart.DELETE("/clear", m.Handler.Clear)
	}
}
