package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID           uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string              `gorm:"size:255;not null" json:"name"`
	Description  string              `gorm:"type:text" json:"description"`
	Image        string              `json:"image"`
	Price        decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"price"`
	ComparePrice decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"comparePrice"` // "was" price, null when not discounted
	Stock        int                 `gorm:"not null" json:"stock"`
	IsActive     bool                `gorm:"not null;index" json:"isActive"`

	// Denormalized from active reviews, see repository.ReviewRepository.RecomputeProductRating.
	AverageRating decimal.Decimal `gorm:"type:decimal(3,2);not null" json:"averageRating"`
	TotalReviews  int             `gorm:"not null" json:"totalReviews"`

	Categories []Category     `gorm:"many2many:product_categories;" json:"categories,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// OriginalPrice is the reference price used for savings: the compare price when set, else the price.
func (p *Product) OriginalPrice() decimal.Decimal {
	if p.ComparePrice.Valid {
		return p.ComparePrice.Decimal
	}
	return p.Price
}
