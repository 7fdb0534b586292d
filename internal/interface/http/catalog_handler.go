package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
	"github.com/oksasatya/go-ecommerce-api/pkg/response"
)

type CatalogHandler struct {
	Svc  *application.CatalogService
	View Presenter
}

func NewCatalogHandler(svc *application.CatalogService, view Presenter) *CatalogHandler {
	return &CatalogHandler{Svc: svc, View: view}
}

type productListQuery struct {
	pageQuery
	Category string `form:"category"`
	MinPrice *int64 `form:"min_price" binding:"omitempty,gte=0"`
	MaxPrice *int64 `form:"max_price" binding:"omitempty,gte=0"`
	InStock  *bool  `form:"in_stock"`
	Featured *bool  `form:"featured"`
	Search   string `form:"search" binding:"max=200"`
	Sort     string `form:"sort" binding:"omitempty,oneof=newest price_asc price_desc name"`
}

func (q productListQuery) toQuery() application.ProductQuery {
	return application.ProductQuery{
		Category:   q.Category,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		InStock:    q.InStock,
		Featured:   q.Featured,
		Search:     q.Search,
		Sort:       repository.ProductSort(q.Sort),
		Pagination: q.pagination(),
	}
}

type limitQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

type searchQuery struct {
	pageQuery
	Q string `form:"q" binding:"max=200"`
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q productListQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.Svc.ListProducts(c.Request.Context(), q.toQuery())
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, page, h.View.product)
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.Svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.product(*p), "", nil)
}

func (h *CatalogHandler) Featured(c *gin.Context) {
	var q limitQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = 8
	}
	items, err := h.Svc.Featured(c.Request.Context(), q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapSlice(items, h.View.product), "", nil)
}

func (h *CatalogHandler) Trending(c *gin.Context) {
	var q limitQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.Limit == 0 {
		q.Limit = 8
	}
	items, err := h.Svc.Trending(c.Request.Context(), q.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapSlice(items, h.View.product), "", nil)
}

func (h *CatalogHandler) Search(c *gin.Context) {
	var q searchQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.Svc.Search(c.Request.Context(), q.Q, q.pagination())
	if err != nil {
		response.Error(c, err)
		return
	}
	paged(c, page, h.View.product)
}

type categoryProductsResponse struct {
	Category categoryResponse  `json:"category"`
	Products []productResponse `json:"products"`
}

func (h *CatalogHandler) ProductsByCategory(c *gin.Context) {
	var q productListQuery
	if !bindQuery(c, &q) {
		return
	}
	cat, page, err := h.Svc.ProductsByCategory(c.Request.Context(), c.Param("slug"), q.toQuery())
	if err != nil {
		response.Error(c, err)
		return
	}
	body := categoryProductsResponse{Category: h.View.category(*cat), Products: mapSlice(page.Items, h.View.product)}
	response.Success(c, http.StatusOK, body, "", response.NewPageMeta(page.Total, page.Page, page.Limit))
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	cats, err := h.Svc.Categories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapSlice(cats, h.View.category), "", nil)
}

func (h *CatalogHandler) Category(c *gin.Context) {
	cat, err := h.Svc.Category(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.category(*cat), "", nil)
}

