package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	handlers "github.com/oksasatya/go-ecommerce-api/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-api/internal/interface/middleware"
)

// AdminModule groups catalog and fulfilment management behind the admin role.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Authz   middleware.Authorizer
}

func NewAdminModule(h *handlers.AdminHandler, authz middleware.Authorizer) *AdminModule {
	return &AdminModule{Handler: h, Authz: authz}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.Auth(m.Authz), middleware.RequireRole(entity.RoleAdmin))
	{
		admin.POST("/categories", m.Handler.UpsertCategory)
		admin.POST("/products", m.Handler.CreateProduct)
		admin.PATCH("/products/:id", m.Handler.UpdateProduct)
		admin.POST("/products/:id/image", m.Handler.UploadProductImage)
		admin.GET("/orders", m.Handler.ListOrders)
		admin.PATCH("/orders/:id/status", m.Handler.UpdateOrderStatus)
	}
}
