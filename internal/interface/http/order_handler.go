package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/pkg/response"
)

type OrderHandler struct {
	Svc  *application.OrderService
	View Presenter
}

func NewOrderHandler(svc *application.OrderService, view Presenter) *OrderHandler {
	return &OrderHandler{Svc: svc, View: view}
}

type shippingRequest struct {
	AddressID string `json:"address_id" binding:"omitempty,uuid"`
	Label     string `json:"label" binding:"max=60"`
	Street    string `json:"street" binding:"required_without=AddressID,max=255"`
	City      string `json:"city" binding:"required_without=AddressID,max=100"`
	State     string `json:"state" binding:"required_without=AddressID,max=100"`
	Landmark  string `json:"landmark" binding:"max=255"`
}

type createOrderRequest struct {
	ShippingAddress shippingRequest `json:"shipping_address" binding:"required"`
	Note            string          `json:"note" binding:"max=500"`
}

type orderListQuery struct {
	pageQuery
	Status string `form:"status" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	s := req.ShippingAddress
	o, err := h.Svc.Create(c.Request.Context(), userID(c), application.CreateOrderInput{
		Shipping: application.ShippingInput{
			AddressID: s.AddressID,
			Label:     s.Label,
			Street:    s.Street,
			City:      s.City,
			State:     s.State,
			Landmark:  s.Landmark,
		},
		Note: req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.View.order(*o), "order placed successfully", nil)
}

func (h *OrderHandler) List(c *gin.Context) {
	var q orderListQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.Svc.List(c.Request.Context(), userID(c), entity.OrderStatus(q.Status), q.pagination())
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, page, h.View.order)
}

func (h *OrderHandler) Get(c *gin.Context) {
	o, err := h.Svc.Get(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.order(*o), "", nil)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	o, err := h.Svc.Cancel(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.order(*o), "order cancelled", nil)
}

func (h *OrderHandler) Track(c *gin.Context) {
	o, err := h.Svc.Track(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.track(*o), "", nil)
}
