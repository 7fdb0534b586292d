package handlers

import (
	"time"

	"github.com/oksasatya/go-ecommerce-api/internal/application"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/pkg/money"
)

// Presenter shapes domain values into response bodies. Amounts are integer
// minor units with a formatted companion string.
type Presenter struct {
	Currency string
}

type userResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	Name       string    `json:"name"`
	AvatarURL  string    `json:"avatar_url"`
	Role       string    `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Presenter) user(u entity.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		Phone:      u.Phone,
		Name:       u.Name,
		AvatarURL:  u.AvatarURL,
		Role:       string(u.Role),
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

type addressResponse struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Street    string    `json:"street"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Landmark  string    `json:"landmark"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
}

func (Presenter) address(a entity.Address) addressResponse {
	return addressResponse{
		ID:        a.ID,
		Label:     a.Label,
		Street:    a.Street,
		City:      a.City,
		State:     a.State,
		Landmark:  a.Landmark,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
	}
}

type categoryResponse struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	SortOrder   int    `json:"sort_order"`
	IsActive    bool   `json:"is_active"`
}

func (Presenter) category(c entity.Category) categoryResponse {
	return categoryResponse{
		ID:          c.ID,
		Slug:        c.Slug,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
	}
}

type productResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	CategoryID     string    `json:"category_id"`
	Category       string    `json:"category"`
	Price          int64     `json:"price"`
	PriceFormatted string    `json:"price_formatted"`
	CompareAtPrice *int64    `json:"compare_at_price"`
	ImageURL       string    `json:"image_url"`
	ImageAlt       string    `json:"image_alt"`
	Color          string    `json:"color"`
	Size           string    `json:"size"`
	Stock          int       `json:"stock"`
	InStock        bool      `json:"in_stock"`
	IsActive       bool      `json:"is_active"`
	IsFeatured     bool      `json:"is_featured"`
	CreatedAt      time.Time `json:"created_at"`
}

func (p Presenter) product(x entity.Product) productResponse {
	return productResponse{
		ID:             x.ID,
		Name:           x.Name,
		Slug:           x.Slug,
		Description:    x.Description,
		CategoryID:     x.CategoryID,
		Category:       x.CategorySlug,
		Price:          x.Price,
		PriceFormatted: money.Format(x.Price, p.Currency),
		CompareAtPrice: x.CompareAtPrice,
		ImageURL:       x.ImageURL,
		ImageAlt:       x.ImageAlt,
		Color:          x.Color,
		Size:           x.Size,
		Stock:          x.Stock,
		InStock:        x.InStock(),
		IsActive:       x.IsActive,
		IsFeatured:     x.IsFeatured,
		CreatedAt:      x.CreatedAt,
	}
}

type cartLineResponse struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	Quantity          int              `json:"quantity"`
	UnitPrice         int64            `json:"unit_price"`
	Subtotal          int64            `json:"subtotal"`
	SubtotalFormatted string           `json:"subtotal_formatted"`
	Available         bool             `json:"available"`
	Product           *productResponse `json:"product"`
	AddedAt           time.Time        `json:"added_at"`
}

type cartResponse struct {
	ID             string             `json:"id,omitempty"`
	Items          []cartLineResponse `json:"items"`
	TotalItems     int                `json:"total_items"`
	Total          int64              `json:"total"`
	TotalFormatted string             `json:"total_formatted"`
}

func (p Presenter) cart(v *application.CartView) cartResponse {
	lines := make([]cartLineResponse, 0, len(v.Lines))
	for _, l := range v.Lines {
		line := cartLineResponse{
			ID:                l.Item.ID,
			ProductID:         l.Item.ProductID,
			Quantity:          l.Item.Quantity,
			UnitPrice:         l.UnitPrice,
			Subtotal:          l.Subtotal,
			SubtotalFormatted: money.Format(l.Subtotal, p.Currency),
			Available:         l.Available,
			AddedAt:           l.Item.AddedAt,
		}
		if l.Product != nil {
			pr := p.product(*l.Product)
			line.Product = &pr
		}
		lines = append(lines, line)
	}
	return cartResponse{
		ID:             v.ID,
		Items:          lines,
		TotalItems:     v.TotalItems,
		Total:          v.Total,
		TotalFormatted: money.Format(v.Total, p.Currency),
	}
}

type orderItemResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id,omitempty"`
	ProductName  string `json:"product_name"`
	ProductImage string `json:"product_image"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	Subtotal     int64  `json:"subtotal"`
}

type shippingResponse struct {
	Label    string `json:"label"`
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state"`
	Landmark string `json:"landmark"`
}

type timelineResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

type orderResponse struct {
	ID              string              `json:"id"`
	OrderNumber     string              `json:"order_number"`
	Status          string              `json:"status"`
	Total           int64               `json:"total"`
	TotalFormatted  string              `json:"total_formatted"`
	ItemCount       int                 `json:"item_count"`
	Items           []orderItemResponse `json:"items"`
	ShippingAddress shippingResponse    `json:"shipping_address"`
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone"`
	CustomerNote    string              `json:"customer_note"`
	CanCancel       bool                `json:"can_cancel"`
	Timeline        []timelineResponse  `json:"timeline,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	DeliveredAt     *time.Time          `json:"delivered_at"`
}

func (Presenter) timeline(entries []entity.TimelineEntry) []timelineResponse {
	return mapSlice(entries, func(e entity.TimelineEntry) timelineResponse {
		return timelineResponse{Status: string(e.Status), Note: e.Note, CreatedAt: e.CreatedAt}
	})
}

func (p Presenter) order(o entity.Order) orderResponse {
	items := mapSlice(o.Items, func(it entity.OrderItem) orderItemResponse {
		return orderItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			ProductImage: it.ProductImage,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			Subtotal:     it.Subtotal,
		}
	})
	out := orderResponse{
		ID:             o.ID,
		OrderNumber:    o.Number,
		Status:         string(o.Status),
		Total:          o.Total,
		TotalFormatted: money.Format(o.Total, p.Currency),
		ItemCount:      o.ItemCount(),
		Items:          items,
		ShippingAddress: shippingResponse{
			Label:    o.Shipping.Label,
			Street:   o.Shipping.Street,
			City:     o.Shipping.City,
			State:    o.Shipping.State,
			Landmark: o.Shipping.Landmark,
		},
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		CustomerNote:  o.CustomerNote,
		CanCancel:     o.Status.Cancellable(),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		DeliveredAt:   o.DeliveredAt,
	}
	if len(o.Timeline) > 0 {
		out.Timeline = p.timeline(o.Timeline)
	}
	return out
}

type trackResponse struct {
	OrderNumber string             `json:"order_number"`
	Status      string             `json:"status"`
	Timeline    []timelineResponse `json:"timeline"`
	DeliveredAt *time.Time         `json:"delivered_at"`
}

func (p Presenter) track(o entity.Order) trackResponse {
	return trackResponse{
		OrderNumber: o.Number,
		Status:      string(o.Status),
		Timeline:    p.timeline(o.Timeline),
		DeliveredAt: o.DeliveredAt,
	}
}

type wishlistResponse struct {
	ID      string          `json:"id"`
	AddedAt time.Time       `json:"added_at"`
	Product productResponse `json:"product"`
}

func (p Presenter) wishlistEntry(e application.WishlistEntry) wishlistResponse {
	return wishlistResponse{ID: e.Item.ID, AddedAt: e.Item.AddedAt, Product: p.product(e.Product)}
}

type tokenResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	TokenType        string    `json:"token_type"`
	ExpiresIn        int64     `json:"expires_in"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

func (Presenter) tokens(t application.TokenPair, now time.Time) tokenResponse {
	return tokenResponse{
		AccessToken:      t.AccessToken,
		RefreshToken:     t.RefreshToken,
		TokenType:        "Bearer",
		ExpiresIn:        int64(t.AccessTokenExpiry.Sub(now).Seconds()),
		AccessExpiresAt:  t.AccessTokenExpiry,
		RefreshExpiresAt: t.RefreshTokenExpiry,
	}
}
