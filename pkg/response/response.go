package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
)

// APIResponse is the envelope every endpoint answers with. Message and Data are
// rendered as null when empty; Code and Errors only appear on failures.
type APIResponse[T any] struct {
	Success   bool                `json:"success"`
	Message   *string             `json:"message"`
	Data      T                   `json:"data"`
	Meta      any                 `json:"meta,omitempty"`
	Code      string              `json:"code,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// PageMeta is attached to paginated listings.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

func NewPageMeta(total, page, limit int) PageMeta {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return PageMeta{Total: total, Page: page, Limit: limit, TotalPages: pages}
}

func message(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, msg string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Success:   true,
		Message:   message(msg),
		Data:      data,
		Meta:      meta,
		RequestID: ctx.GetString("request_id"),
		Timestamp: time.Now().UTC(),
	}
	ctx.JSON(status, resp)
	return resp
}

// Error classifies err, writes the failure envelope and aborts the chain.
// Internal errors never expose their cause; it is attached to the Gin context
// for the access log instead.
func Error(ctx *gin.Context, err error) APIResponse[any] {
	ae := apperror.From(err)
	msg := ae.Message
	if ae.Kind == apperror.KindInternal {
		msg = "internal server error"
		_ = ctx.Error(err)
	}
	resp := APIResponse[any]{
		Success:   false,
		Message:   message(msg),
		Code:      ae.Code,
		Errors:    ae.Fields,
		RequestID: ctx.GetString("request_id"),
		Timestamp: time.Now().UTC(),
	}
	ctx.AbortWithStatusJSON(ae.HTTPStatus(), resp)
	return resp
}
