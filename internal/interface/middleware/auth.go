package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
	"github.com/oksasatya/go-ecommerce-api/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserRoleKey  = "userRole"
	CtxSessionIDKey = "sessionID"
)

// Authorizer resolves an access token to the caller. *application.AuthService
// satisfies it.
type Authorizer interface {
	Authorize(ctx context.Context, accessToken string) (application.Principal, error)
}

func bearerToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Auth requires a valid Bearer access token backed by a live session. It sets
// userID, userRole and sessionID in the Gin context on success.
func Auth(authz Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, apperror.Unauthorized("missing access token"))
			return
		}
		p, err := authz.Authorize(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Set(CtxUserIDKey, p.UserID)
		c.Set(CtxUserRoleKey, string(p.Role))
		c.Set(CtxSessionIDKey, p.SessionID)
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(role entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRoleKey) != string(role) {
			response.Error(c, apperror.Forbidden("insufficient permissions"))
			return
		}
		c.Next()
	}
}
