package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/interface/middleware"
	"github.com/oksasatya/go-ecommerce-api/pkg/response"
	"github.com/oksasatya/go-ecommerce-api/pkg/validation"
)

type pageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

func (q pageQuery) pagination() application.Pagination {
	return application.Pagination{Page: q.Page, Limit: q.Limit}.Normalize()
}

// bindJSON writes a 422 envelope and returns false when the body does not bind.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, validation.ToError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		response.Error(c, validation.ToError(err))
		return false
	}
	return true
}

func userID(c *gin.Context) string { return c.GetString(middleware.CtxUserIDKey) }

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

// paged answers with a page of items and the pagination meta block.
func paged[T, R any](c *gin.Context, p application.Page[T], fn func(T) R) {
	response.Success(c, 0, mapSlice(p.Items, fn), "", response.NewPageMeta(p.Total, p.Page, p.Limit))
}
