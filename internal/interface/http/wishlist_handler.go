package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/pkg/response"
)

type WishlistHandler struct {
	Svc  *application.WishlistService
	View Presenter
}

func NewWishlistHandler(svc *application.WishlistService, view Presenter) *WishlistHandler {
	return &WishlistHandler{Svc: svc, View: view}
}

type addWishlistRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
}

func (h *WishlistHandler) List(c *gin.Context) {
	entries, err := h.Svc.List(c.Request.Context(), userID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapSlice(entries, h.View.wishlistEntry), "", nil)
}

// Add answers 201 for a new entry and 200 when the product was already listed.
func (h *WishlistHandler) Add(c *gin.Context) {
	var req addWishlistRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, created, err := h.Svc.Add(c.Request.Context(), userID(c), req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}
	status, msg := http.StatusOK, "already in wishlist"
	if created {
		status, msg = http.StatusCreated, "added to wishlist"
	}
	response.Success(c, status, h.View.wishlistEntry(*entry), msg, nil)
}

func (h *WishlistHandler) Remove(c *gin.Context) {
	if err := h.Svc.Remove(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "removed from wishlist", nil)
}
