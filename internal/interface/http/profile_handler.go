package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/pkg/apperror"
	"github.com/oksasatya/go-ecommerce-api/pkg/response"
)

const maxImageBytes = 5 << 20

type ProfileHandler struct {
	Svc  *application.ProfileService
	View Presenter
}

func NewProfileHandler(svc *application.ProfileService, view Presenter) *ProfileHandler {
	return &ProfileHandler{Svc: svc, View: view}
}

type updateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2,max=120"`
	Phone *string `json:"phone" binding:"omitempty,ngphone"`
}

type addressRequest struct {
	Label     string `json:"label" binding:"max=60"`
	Street    string `json:"street" binding:"required,max=255"`
	City      string `json:"city" binding:"required,max=100"`
	State     string `json:"state" binding:"required,max=100"`
	Landmark  string `json:"landmark" binding:"max=255"`
	IsDefault bool   `json:"is_default"`
}

func (r addressRequest) input() application.AddressInput {
	return application.AddressInput{
		Label:     r.Label,
		Street:    r.Street,
		City:      r.City,
		State:     r.State,
		Landmark:  r.Landmark,
		IsDefault: r.IsDefault,
	}
}

type profileResponse struct {
	userResponse
	Addresses []addressResponse `json:"addresses"`
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, err := h.Svc.GetProfile(c.Request.Context(), userID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, profileResponse{
		userResponse: h.View.user(p.User),
		Addresses:    mapSlice(p.Addresses, h.View.address),
	}, "", nil)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), userID(c), application.ProfileInput{Name: req.Name, Phone: req.Phone})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.user(*u), "profile updated", nil)
}

// imageUpload pulls the "file" part of a multipart form and checks it is an
// image of at most 5 MiB.
func imageUpload(c *gin.Context) (multipart.File, *multipart.FileHeader, bool) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.Error(c, apperror.Validation("invalid upload", map[string][]string{"file": {"is required"}}))
		return nil, nil, false
	}
	if fh.Size > maxImageBytes {
		response.Error(c, apperror.Validation("invalid upload", map[string][]string{"file": {"must be at most 5MB"}}))
		return nil, nil, false
	}
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		response.Error(c, apperror.Validation("invalid upload", map[string][]string{"file": {"must be an image"}}))
		return nil, nil, false
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return nil, nil, false
	}
	return f, fh, true
}

func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	f, fh, ok := imageUpload(c)
	if !ok {
		return
	}
	defer func() { _ = f.Close() }()
	u, err := h.Svc.UploadAvatar(c.Request.Context(), userID(c), f, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.user(*u), "avatar updated", nil)
}

func (h *ProfileHandler) ListAddresses(c *gin.Context) {
	addrs, err := h.Svc.ListAddresses(c.Request.Context(), userID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapSlice(addrs, h.View.address), "", nil)
}

func (h *ProfileHandler) CreateAddress(c *gin.Context) {
	var req addressRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Svc.CreateAddress(c.Request.Context(), userID(c), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, h.View.address(*a), "address added", nil)
}

func (h *ProfileHandler) UpdateAddress(c *gin.Context) {
	var req addressRequest
	if !bindJSON(c, &req) {
		return
	}
	a, err := h.Svc.UpdateAddress(c.Request.Context(), userID(c), c.Param("id"), req.input())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.address(*a), "address updated", nil)
}

func (h *ProfileHandler) DeleteAddress(c *gin.Context) {
	if err := h.Svc.DeleteAddress(c.Request.Context(), userID(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "address deleted", nil)
}

func (h *ProfileHandler) SetDefaultAddress(c *gin.Context) {
	a, err := h.Svc.SetDefaultAddress(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, h.View.address(*a), "default address updated", nil)
}
