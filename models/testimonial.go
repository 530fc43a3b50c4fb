package models

import "time"

// Testimonial is a customer quote shown on the storefront once an admin approves it.
type Testimonial struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"size:64;index" json:"userId"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Title     string    `gorm:"size:120" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Rating    int       `gorm:"not null" json:"rating"`
	IsActive  bool      `gorm:"not null;index" json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
