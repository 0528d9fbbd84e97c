package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog item as stored in Postgres.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name           string          `gorm:"type:varchar(70);not null" json:"name"`
	ShortDesc      string          `gorm:"type:varchar(100);not null" json:"short_desc"`
	LongDesc       string          `gorm:"type:text" json:"long_desc"`
	Price          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Discount       int             `gorm:"not null;default:0" json:"discount"`
	DiscountStatus bool            `gorm:"not null;default:false" json:"discount_status"`
	Category       string          `gorm:"type:varchar(50);not null;index" json:"category"`
	Image          string          `gorm:"type:varchar(255)" json:"image"`
	Slug           string          `gorm:"type:varchar(100);index" json:"slug"`
	SKU            string          `gorm:"type:varchar(32);uniqueIndex" json:"sku"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProductInput is the payload for creating or updating a product.
type ProductInput struct {
	Name           string          `json:"name" binding:"required,min=3,max=70"`
	ShortDesc      string          `json:"short_desc" binding:"required,min=5,max=100"`
	LongDesc       string          `json:"long_desc" binding:"omitempty,min=10,max=1000"`
	Price          decimal.Decimal `json:"price"`
	Discount       int             `json:"discount" binding:"gte=0,lte=100"`
	DiscountStatus bool            `json:"discount_status"`
	Category       string          `json:"category" binding:"required,min=2,max=50"`
	Image          string          `json:"image" binding:"required,url,max=255"`
}

// CatalogItem returns the pricing-relevant snapshot of the product.
func (p *Product) CatalogItem() CatalogItem {
	return CatalogItem{
		ID:             p.ID.String(),
		Name:           p.Name,
		Image:          p.Image,
		Slug:           p.Slug,
		Price:          p.Price,
		Discount:       p.Discount,
		DiscountStatus: p.DiscountStatus,
	}
}
