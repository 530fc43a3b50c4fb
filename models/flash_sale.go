package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FlashSale is a time-boxed promotion with its own prices, addable to the cart like a product.
type FlashSale struct {
	ID                 uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	Title              string              `gorm:"size:255;not null" json:"title"`
	Description        string              `gorm:"type:text" json:"description"`
	Image              string              `json:"image"`
	CurrentPrice       decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"currentPrice"`
	OldPrice           decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"oldPrice"`
	DiscountPercentage int                 `gorm:"not null" json:"discountPercentage"`
	StartDate          time.Time           `gorm:"not null;index" json:"startDate"`
	EndDate            time.Time           `gorm:"not null;index" json:"endDate"`
	IsActive           bool                `gorm:"not null;index" json:"isActive"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt      `gorm:"index" json:"-"`
}

// WithinWindow reports whether now falls in the closed interval [StartDate, EndDate].
func (f *FlashSale) WithinWindow(now time.Time) bool {
	return !now.Before(f.StartDate) && !now.After(f.EndDate)
}

// AvailableAt reports whether the sale can be added to a cart at now.
func (f *FlashSale) AvailableAt(now time.Time) bool {
	return f.IsActive && f.WithinWindow(now)
}

// UnitPrice is the price charged per unit: current price, then old price, then zero.
func (f *FlashSale) UnitPrice() decimal.Decimal {
	switch {
	case f.CurrentPrice.Valid:
		return f.CurrentPrice.Decimal
	case f.OldPrice.Valid:
		return f.OldPrice.Decimal
	default:
		return decimal.Zero
	}
}

// OriginalPrice is the reference price used for savings: old price, then current price, then zero.
func (f *FlashSale) OriginalPrice() decimal.Decimal {
	switch {
	case f.OldPrice.Valid:
		return f.OldPrice.Decimal
	case f.CurrentPrice.Valid:
		return f.CurrentPrice.Decimal
	default:
		return decimal.Zero
	}
}

// Validate checks the availability window. Both dates are required.
func (f *FlashSale) Validate() error {
	if f.StartDate.IsZero() || f.EndDate.IsZero() || !f.StartDate.Before(f.EndDate) {
		return ErrInvalidSaleWindow
	}
	return nil
}

// DeriveDiscount recomputes DiscountPercentage when both prices are known and old > 0.
func (f *FlashSale) DeriveDiscount() {
	if !f.CurrentPrice.Valid || !f.OldPrice.Valid || !f.OldPrice.Decimal.IsPositive() {
		return
	}
	off := f.OldPrice.Decimal.Sub(f.CurrentPrice.Decimal).
		Div(f.OldPrice.Decimal).
		Mul(decimal.NewFromInt(100)).
		Round(0)
	if off.IsNegative() {
		off = decimal.Zero
	}
	f.DiscountPercentage = int(off.IntPart())
}
