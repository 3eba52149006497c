package models

import "time"

// ProductType enumerates the supported digital product types.
type ProductType string

const (
	ProductTypeVideoCourse ProductType = "Video Course"
	ProductTypeEbook       ProductType = "eBook"
	ProductTypeTemplate    ProductType = "Template"
	ProductTypeCodePackage ProductType = "Code Package"
)

// Product represents a digital product in the catalog.
// Prices are stored in whole rupiah. PromoPrice is optional; when set together
// with an active countdown window it is the effective sale price.
type Product struct {
	ID                   string      `db:"id" json:"id"`
	Slug                 string      `db:"slug" json:"slug"`
	Name                 string      `db:"name" json:"name"`
	Description          string      `db:"description" json:"description"`
	ImageURL             string      `db:"image_url" json:"imageUrl"`
	Type                 ProductType `db:"type" json:"type"`
	Price                int         `db:"price" json:"price"`
	PromoPrice           *int        `db:"promo_price" json:"promoPrice,omitempty"`
	IsCountdownPromotion bool        `db:"is_countdown_promotion" json:"isCountdownPromotion"`
	PromoEndAt           *time.Time  `db:"promo_end_at" json:"promoEndAt,omitempty"`
	CreatedAt            time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time   `db:"updated_at" json:"-"`

	// Loaded separately, ordered by display_order.
	LinkCategories []LinkCategory `db:"-" json:"linkCategories,omitempty"`
}

// LinkCategory groups the downloadable links of a product.
type LinkCategory struct {
	ID           string    `db:"id" json:"id"`
	ProductID    string    `db:"product_id" json:"productId"`
	Name         string    `db:"name" json:"name"`
	Description  string    `db:"description" json:"description"`
	DisplayOrder int       `db:"display_order" json:"order"`
	CreatedAt    time.Time `db:"created_at" json:"-"`

	Links []Link `db:"-" json:"links,omitempty"`
}

// Link is a single deliverable inside a link category.
type Link struct {
	ID           string    `db:"id" json:"id"`
	CategoryID   string    `db:"category_id" json:"categoryId"`
	Name         string    `db:"name" json:"name"`
	URL          string    `db:"url" json:"url"`
	Description  *string   `db:"description" json:"description,omitempty"`
	DisplayOrder int       `db:"display_order" json:"order"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}
