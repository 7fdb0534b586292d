package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
	"github.com/oksasatya/go-ecommerce-api/pkg/response"
)

// Pinger is satisfied by every repository.Store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	DB      Pinger
	AppName string
}

func NewHealthHandler(db Pinger, appName string) *HealthHandler {
	return &HealthHandler{DB: db, AppName: appName}
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.DB.Ping(ctx); err != nil {
		response.Error(c, apperror.New(apperror.KindUnavailable, "DATABASE_UNAVAILABLE", "database unavailable").Wrap(err))
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok", "service": h.AppName}, "", nil)
}
