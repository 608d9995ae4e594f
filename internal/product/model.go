package product

import (
	"io"
	"time"

	"dukani-be/internal/money"
)

const (
	StatusActive  = "active"
	StatusDisable = "disable"
)

type Image struct {
	URL      string `json:"url"`
	Path     string `json:"path"`
	Position int    `json:"position"`
}

type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description,omitempty"`

	Price money.Cents `json:"price"`
	// CompareAtPrice is the pre-sale price used for the discount badge.
	CompareAtPrice *money.Cents `json:"compare_at_price,omitempty"`

	SKU string `json:"sku"`

	CategoryID    string  `json:"category_id"`
	SubcategoryID *string `json:"subcategory_id,omitempty"`

	Status string  `json:"status"`
	Images []Image `json:"images"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DiscountPercent is the storefront badge value; zero when there is no
// compare-at price or no saving.
func (p *Product) DiscountPercent() int {
	if p.CompareAtPrice == nil {
		return 0
	}
	return money.DiscountPercent(*p.CompareAtPrice, p.Price)
}

type NewProduct struct {
	Name           string       `json:"name" validate:"required"`
	Description    *string      `json:"description"`
	Price          money.Cents  `json:"price" validate:"gt=0"`
	CompareAtPrice *money.Cents `json:"compare_at_price"`
	SKU            string       `json:"sku" validate:"required"`
	CategoryID     string       `json:"category_id" validate:"required"`
	SubcategoryID  *string      `json:"subcategory_id"`
}

type UpdateProduct struct {
	ID             string       `json:"id"`
	Name           *string      `json:"name"`
	Description    *string      `json:"description"`
	Price          *money.Cents `json:"price"`
	CompareAtPrice *money.Cents `json:"compare_at_price"`
	SKU            *string      `json:"sku"`
	CategoryID     *string      `json:"category_id"`
	SubcategoryID  *string      `json:"subcategory_id"`
	Status         *string      `json:"status"`
}

// HasAnyField reports whether the partial update carries anything to write.
func (u UpdateProduct) HasAnyField() bool {
	return u.Name != nil ||
		u.Description != nil ||
		u.Price != nil ||
		u.CompareAtPrice != nil ||
		u.SKU != nil ||
		u.CategoryID != nil ||
		u.SubcategoryID != nil ||
		u.Status != nil
}

// ImageUpload is one file going through the create/attach pipeline.
type ImageUpload struct {
	FileName string
	Content  io.Reader
}

type QueryOptions struct {
	Search          string
	CategoryID      string
	Status          string
	MinPrice        *money.Cents
	MaxPrice        *money.Cents
	InStock         *bool
	IncludeDisabled bool
	IncludeCount    bool
	Page            int32
	Limit           int32
}

type ListResult struct {
	Items      []*Product `json:"items"`
	TotalCount *int       `json:"total_count,omitempty"`
}
