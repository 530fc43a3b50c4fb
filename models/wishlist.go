package models

import "time"

type WishlistItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_wishlist_user_product" json:"userId"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_user_product" json:"productId"`
	Product   *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
