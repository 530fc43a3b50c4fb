package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/models"
)

// PricingPolicy holds the shipping and tax parameters applied to a cart.
type PricingPolicy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		FreeShippingThreshold: decimal.NewFromInt(50),
		FlatShippingFee:       decimal.RequireFromString("9.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

// NewPricingPolicy parses the policy from configuration.
func NewPricingPolicy(cfg config.PricingConfig) (PricingPolicy, error) {
	threshold, err := decimal.NewFromString(cfg.FreeShippingThreshold)
	if err != nil {
		return PricingPolicy{}, fmt.Errorf("parse free shipping threshold: %w", err)
	}
	fee, err := decimal.NewFromString(cfg.FlatShippingFee)
	if err != nil {
		return PricingPolicy{}, fmt.Errorf("parse flat shipping fee: %w", err)
	}
	rate, err := decimal.NewFromString(cfg.TaxRate)
	if err != nil {
		return PricingPolicy{}, fmt.Errorf("parse tax rate: %w", err)
	}
	if threshold.IsNegative() || fee.IsNegative() || rate.IsNegative() {
		return PricingPolicy{}, fmt.Errorf("pricing values must not be negative")
	}
	return PricingPolicy{FreeShippingThreshold: threshold, FlatShippingFee: fee, TaxRate: rate}, nil
}

// LinePrice is the priced view of one cart line.
type LinePrice struct {
	LineID            uint            `json:"lineId"`
	ItemKind          models.ItemKind `json:"itemKind"`
	Name              string          `json:"name"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	OriginalUnitPrice decimal.Decimal `json:"originalUnitPrice"`
	LineTotal         decimal.Decimal `json:"lineTotal"`
	Savings           decimal.Decimal `json:"savings"`
}

type CartSummary struct {
	Lines     []LinePrice     `json:"lines"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Savings   decimal.Decimal `json:"savings"`
	Shipping  decimal.Decimal `json:"shipping"`
	Tax       decimal.Decimal `json:"tax"`
	Total     decimal.Decimal `json:"total"`
}

// UnitPrice is what one unit of the line costs: the product price, or the flash sale's current
// price falling back to its old price. A line whose entity is not loaded costs zero.
func UnitPrice(line *models.CartLine) decimal.Decimal {
	switch {
	case line.ItemKind == models.ItemKindFlashSale && line.FlashSale != nil:
		return line.FlashSale.UnitPrice()
	case line.ItemKind == models.ItemKindProduct && line.Product != nil:
		return line.Product.Price
	default:
		return decimal.Zero
	}
}

// OriginalUnitPrice is the reference price savings are measured against.
func OriginalUnitPrice(line *models.CartLine) decimal.Decimal {
	switch {
	case line.ItemKind == models.ItemKindFlashSale && line.FlashSale != nil:
		return line.FlashSale.OriginalPrice()
	case line.ItemKind == models.ItemKindProduct && line.Product != nil:
		return line.Product.OriginalPrice()
	default:
		return decimal.Zero
	}
}

func lineName(line *models.CartLine) string {
	switch {
	case line.ItemKind == models.ItemKindFlashSale && line.FlashSale != nil:
		return line.FlashSale.Title
	case line.Product != nil:
		return line.Product.Name
	default:
		return ""
	}
}

// Summarize prices the lines. It reads nothing but its arguments.
//
// Shipping is free strictly above the threshold. An empty cart is all zeros: the flat fee is not
// charged when there is nothing to ship, even though a zero subtotal is below the threshold.
// Tax is subtotal x rate rounded to cents, so Total is always a whole-cent amount.
// Per-line savings never go negative: a reference price below the unit price counts as no saving.
func (p PricingPolicy) Summarize(lines []models.CartLine) CartSummary {
	summary := CartSummary{
		Lines:    make([]LinePrice, 0, len(lines)),
		Subtotal: decimal.Zero,
		Savings:  decimal.Zero,
		Shipping: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
	}

	for i := range lines {
		line := &lines[i]
		qty := decimal.NewFromInt(int64(line.Quantity))
		unit := UnitPrice(line)
		original := OriginalUnitPrice(line)

		saving := original.Sub(unit).Mul(qty)
		if saving.IsNegative() {
			saving = decimal.Zero
		}

		lp := LinePrice{
			LineID:            line.ID,
			ItemKind:          line.ItemKind,
			Name:              lineName(line),
			Quantity:          line.Quantity,
			UnitPrice:         unit,
			OriginalUnitPrice: original,
			LineTotal:         unit.Mul(qty),
			Savings:           saving,
		}
		summary.Lines = append(summary.Lines, lp)
		summary.ItemCount += line.Quantity
		summary.Subtotal = summary.Subtotal.Add(lp.LineTotal)
		summary.Savings = summary.Savings.Add(lp.Savings)
	}

	if len(lines) == 0 {
		return summary
	}

	if !summary.Subtotal.GreaterThan(p.FreeShippingThreshold) {
		summary.Shipping = p.FlatShippingFee
	}
	summary.Tax = summary.Subtotal.Mul(p.TaxRate).Round(2)
	summary.Total = summary.Subtotal.Add(summary.Shipping).Add(summary.Tax)
	return summary
}
