package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/pkg/response"
)

type CartHandler struct {
	Svc  *application.CartService
	View Presenter
}

func NewCartHandler(svc *application.CartService, view Presenter) *CartHandler {
	return &CartHandler{Svc: svc, View: view}
}

type addCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=1000"`
}

type updateCartItemRequest struct {
	// zero removes the line
	Quantity *int `json:"quantity" binding:"required,max=1000"`
}

func (h *CartHandler) respond(c *gin.Context, status int, v *application.CartView, err error, msg string) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, status, h.View.cart(v), msg, nil)
}

func (h *CartHandler) GetCart(c *gin.Context) {
	v, err := h.Svc.GetCart(c.Request.Context(), userID(c))
	h.respond(c, http.StatusOK, v, err, "")
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.Svc.AddItem(c.Request.Context(), userID(c), req.ProductID, req.Quantity)
	h.respond(c, http.StatusOK, v, err, "item added to cart")
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.Svc.UpdateItem(c.Request.Context(), userID(c), c.Param("id"), *req.Quantity)
	h.respond(c, http.StatusOK, v, err, "cart updated")
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	v, err := h.Svc.RemoveItem(c.Request.Context(), userID(c), c.Param("id"))
	h.respond(c, http.StatusOK, v, err, "item removed from cart")
}

func (h *CartHandler) Clear(c *gin.Context) {
	v, err := h.Svc.Clear(c.Request.Context(), userID(c))
	h.respond(c, http.StatusOK, v, err, "cart cleared")
}
