package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ecommerce-api/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-api/internal/interface/middleware"
)

// ProfileModule wires /user: profile, avatar and the address book.
type ProfileModule struct {
	Handler *handlers.ProfileHandler
	Authz   middleware.Authorizer
}

func NewProfileModule(h *handlers.ProfileHandler, authz middleware.Authorizer) *ProfileModule {
	return &ProfileModule{Handler: h, Authz: authz}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	user := rg.Group("/user")
	user.Use(middleware.Auth(m.Authz))
	{
		user.GET("/profile", m.Handler.GetProfile)
		user.PUT("/profile", m.Handler.UpdateProfile)
		user.POST("/avatar", m.Handler.UploadAvatar)

		user.GET("/addresses", m.Handler.ListAddresses)
		user.POST("/addresses", m.Handler.CreateAddress)
		user.PUT("/addresses/:id", m.Handler.UpdateAddress)
		user.DELETE("/addresses/:id", m.Handler.DeleteAddress)
		user.POST("/addresses/:id/default", m.Handler.SetDefaultAddress)
	}
}
