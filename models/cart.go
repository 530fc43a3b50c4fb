package models

import (
	"fmt"
	"time"
)

type ItemKind string

const (
	ItemKindProduct   ItemKind = "product"
	ItemKindFlashSale ItemKind = "flash_sale"
)

// MaxLineQuantity caps a single cart line, merged adds included.
const MaxLineQuantity = 999

// ValidQuantity reports whether q can be stored on a cart line.
func ValidQuantity(q int) bool {
	return q >= 1 && q <= MaxLineQuantity
}

// CartLine is one saved (user, catalog item, quantity) row. Exactly one of ProductID and
// FlashSaleID is set, matching ItemKind; use SetRef to keep the three fields consistent.
type CartLine struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string     `gorm:"size:64;not null;index;uniqueIndex:idx_cart_user_product;uniqueIndex:idx_cart_user_flash_sale" json:"userId"`
	Quantity    int        `gorm:"not null" json:"quantity"`
	ItemKind    ItemKind   `gorm:"type:varchar(16);not null" json:"itemKind"`
	ProductID   *uint      `gorm:"uniqueIndex:idx_cart_user_product" json:"productId"`
	FlashSaleID *uint      `gorm:"uniqueIndex:idx_cart_user_flash_sale" json:"flashSaleId"`
	Product     *Product   `gorm:"foreignKey:ProductID" json:"product"`
	FlashSale   *FlashSale `gorm:"foreignKey:FlashSaleID" json:"flashSale"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Ref returns the line's catalog reference.
func (l *CartLine) Ref() LineRef {
	switch {
	case l.ItemKind == ItemKindProduct && l.ProductID != nil:
		return ProductRef(*l.ProductID)
	case l.ItemKind == ItemKindFlashSale && l.FlashSaleID != nil:
		return FlashSaleRef(*l.FlashSaleID)
	default:
		return LineRef{}
	}
}

// SetRef points the line at ref, clearing the other reference column.
func (l *CartLine) SetRef(ref LineRef) {
	id := ref.ID()
	l.ItemKind = ref.Kind()
	l.ProductID, l.FlashSaleID = nil, nil
	switch ref.Kind() {
	case ItemKindProduct:
		l.ProductID = &id
	case ItemKindFlashSale:
		l.FlashSaleID = &id
	}
}

// Resolved reports whether at least one referenced entity is still loaded.
func (l *CartLine) Resolved() bool {
	return l.Product != nil || l.FlashSale != nil
}

// LineRef is the catalog entity a cart line points at: a product or a flash sale, never both.
// The zero value references nothing; build one with ProductRef, FlashSaleRef or NewLineRef.
type LineRef struct {
	kind ItemKind
	id   uint
}

func ProductRef(id uint) LineRef {
	return LineRef{kind: ItemKindProduct, id: id}
}

func FlashSaleRef(id uint) LineRef {
	return LineRef{kind: ItemKindFlashSale, id: id}
}

// NewLineRef builds a reference from the two optional request ids. Exactly one must be a
// non-zero id.
func NewLineRef(productID, flashSaleID *uint) (LineRef, error) {
	hasProduct := productID != nil && *productID != 0
	hasFlashSale := flashSaleID != nil && *flashSaleID != 0
	switch {
	case hasProduct && !hasFlashSale:
		return ProductRef(*productID), nil
	case hasFlashSale && !hasProduct:
		return FlashSaleRef(*flashSaleID), nil
	default:
		return LineRef{}, ErrInvalidReference
	}
}

func (r LineRef) Kind() ItemKind { return r.kind }
func (r LineRef) ID() uint       { return r.id }
func (r LineRef) IsZero() bool   { return r.kind == "" || r.id == 0 }

func (r LineRef) String() string {
	if r.IsZero() {
		return "none"
	}
	return fmt.Sprintf("%s:%d", r.kind, r.id)
}
