package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// Price is a JSON number on the wire, not a quoted string.
	decimal.MarshalJSONWithoutQuotes = true
}

// ListingType says whether a product is offered for sale or for rent.
type ListingType string

const (
	ListingTypeSale ListingType = "sale"
	ListingTypeRent ListingType = "rent"
)

// Category is the product category.
type Category string

const (
	CategoryBooks    Category = "books"
	CategoryVehicles Category = "vehicles"
	CategorySnacks   Category = "snacks"
	CategoryClothing Category = "clothing"
)

// Product represents a marketplace listing.
//
// Image holds either an http(s) URL or an inline base64 data URI produced by
// the image normalizer. Deadline and Expiry are calendar dates (YYYY-MM-DD)
// kept as strings to match the wire format; Expiry is required for snacks.
type Product struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	OwnerID   uuid.UUID       `json:"owner_id" gorm:"type:char(36);not null;index"`
	Name      string          `json:"name" gorm:"size:255;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(20,2);not null"`
	Image     string          `json:"image" gorm:"type:mediumtext;not null"`
	Type      ListingType     `json:"type" gorm:"type:varchar(10);not null;default:'sale';index"`
	Category  Category        `json:"category" gorm:"type:varchar(20);not null;default:'books';index"`
	Phone     string          `json:"phone" gorm:"size:10;not null"`
	Address   string          `json:"address,omitempty" gorm:"size:500"`
	Deadline  string          `json:"deadline,omitempty" gorm:"size:10"`
	Expiry    string          `json:"expiry,omitempty" gorm:"size:10"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
