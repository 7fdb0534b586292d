package entity

import "time"

// Category is a taxonomy node addressed by its unique slug.
type Category struct {
	ID          string
	Slug        string
	Name        string
	Description string
	ImageURL    string
	IsActive    bool
	SortOrder   int
	CreatedAt   time.Time
}

// Product prices are integer minor units (kobo).
type Product struct {
	ID             string
	CategoryID     string
	CategorySlug   string
	Name           string
	Slug           string
	Description    string
	Price          int64
	CompareAtPrice *int64
	ImageURL       string
	ImageAlt       string
	Color          string
	Size           string
	Stock          int
	IsActive       bool
	IsFeatured     bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (p *Product) InStock() bool { return p.Stock > 0 }

// CanFulfil reports whether qty units can be sold right now.
func (p *Product) CanFulfil(qty int) bool {
	return p.IsActive && qty > 0 && p.Stock >= qty
}
