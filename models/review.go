package models

import "time"

type Review struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  uint      `gorm:"not null;index;uniqueIndex:idx_review_user_product" json:"productId"`
	UserID     string    `gorm:"size:64;not null;uniqueIndex:idx_review_user_product" json:"userId"`
	AuthorName string    `gorm:"size:120" json:"authorName"`
	Rating     int       `gorm:"not null" json:"rating"`
	Title      string    `gorm:"size:255" json:"title"`
	Comment    string    `gorm:"type:text" json:"comment"`
	IsActive   bool      `gorm:"not null;index" json:"isActive"`
	IsVerified bool      `gorm:"not null" json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func ValidRating(r int) bool {
	return r >= 1 && r <= 5
}
