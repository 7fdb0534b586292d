package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/pkg/response"
)

// AdminHandler serves catalog writes and order fulfilment. Routes are
// mounted behind RequireRole(admin).
type AdminHandler struct {
	Catalog *application.CatalogService
	Orders  *application.OrderService
	View    Presenter
}

func NewAdminHandler(catalog *application.CatalogService, orders *application.OrderService, view Presenter) *AdminHandler {
	return &AdminHandler{Catalog: catalog, Orders: orders, View: view}
}

type categoryRequest struct {
	Slug        string `json:"slug" binding:"omitempty,slug,max=120"`
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description" binding:"max=2000"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

type createProductRequest struct {
	CategoryID     string `json:"category_id" binding:"required,uuid"`
	Name           string `json:"name" binding:"required,max=200"`
	Slug           string `json:"slug" binding:"omitempty,slug,max=200"`
	Description    string `json:"description" binding:"max=5000"`
	Price          int64  `json:"price" binding:"gte=0"`
	CompareAtPrice *int64 `json:"compare_at_price" binding:"omitempty,gte=0"`
	ImageURL       string `json:"image_url" binding:"omitempty,url"`
	ImageAlt       string `json:"image_alt" binding:"max=200"`
	Color          string `json:"color" binding:"max=50"`
	Size           string `json:"size" binding:"max=50"`
	Stock          int    `json:"stock" binding:"gte=0"`
	IsActive       *bool  `json:"is_active"`
	IsFeatured     bool   `json:"is_featured"`
}

type updateProductRequest struct {
	CategoryID     *string `json:"category_id" binding:"omitempty,uuid"`
	Name           *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description    *string `json:"description" binding:"omitempty,max=5000"`
	Price          *int64  `json:"price" binding:"omitempty,gte=0"`
	CompareAtPrice *int64  `json:"compare_at_price" binding:"omitempty,gte=0"`
	ImageAlt       *string `json:"image_alt" binding:"omitempty,max=200"`
	Color          *string `json:"color" binding:"omitempty,max=50"`
	Size           *string `json:"size" binding:"omitempty,max=50"`
	Stock          *int    `json:"stock" binding:"omitempty,gte=0"`
	IsActive       *bool   `json:"is_active"`
	IsFeatured     *bool   `json:"is_featured"`
}

type updateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing shipped delivered cancelled"`
	Note   string `json:"note" binding:"max=500"`
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func (h *AdminHandler) UpsertCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.Catalog.UpsertCategory(c.Request.Context(), application.CategoryInput{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		IsActive:    boolOr(req.IsActive, true),
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.category(*cat), "category saved", nil)
}

func (h *AdminHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Catalog.CreateProduct(c.Request.Context(), application.ProductInput{
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		ImageURL:       req.ImageURL,
		ImageAlt:       req.ImageAlt,
		Color:          req.Color,
		Size:           req.Size,
		Stock:          req.Stock,
		IsActive:       boolOr(req.IsActive, true),
		IsFeatured:     req.IsFeatured,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.View.product(*p), "product created", nil)
}

func (h *AdminHandler) UpdateProduct(c *gin.Context) {
	var req updateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.Catalog.UpdateProduct(c.Request.Context(), c.Param("id"), application.ProductPatch{
		CategoryID:     req.CategoryID,
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		CompareAtPrice: req.CompareAtPrice,
		ImageAlt:       req.ImageAlt,
		Color:          req.Color,
		Size:           req.Size,
		Stock:          req.Stock,
		IsActive:       req.IsActive,
		IsFeatured:     req.IsFeatured,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.product(*p), "product updated", nil)
}

func (h *AdminHandler) UploadProductImage(c *gin.Context) {
	f, fh, ok := imageUpload(c)
	if !ok {
		return
	}
	defer func() { _ = f.Close() }()
	p, err := h.Catalog.UploadProductImage(c.Request.Context(), c.Param("id"), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.product(*p), "image uploaded", nil)
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	var q orderListQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.Orders.ListAll(c.Request.Context(), entity.OrderStatus(q.Status), q.pagination())
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, page, h.View.order)
}

func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	o, err := h.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), entity.OrderStatus(req.Status), req.Note)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.order(*o), "order status updated", nil)
}
