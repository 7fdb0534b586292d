package middleware

import (
	"net"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
	"github.com/oksasatya/go-ecommerce-api/pkg/response"
)

// AllowPrivateIP reports whether the caller sits on a loopback or private
// network (10/8, 172.16/12, 192.168/16, fc00::/7).
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ClientIP(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// Only lets a request through when allow says so and answers 403 otherwise.
func Only(allow AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !allow(c) {
			response.Error(c, apperror.Forbidden("access denied"))
			return
		}
		c.Next()
	}
}
