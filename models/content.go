package models

import "time"

type HeroBanner struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	Subtitle   string    `gorm:"size:255" json:"subtitle"`
	Image      string    `gorm:"not null" json:"image"`
	LinkURL    string    `json:"linkUrl"`
	ButtonText string    `gorm:"size:60" json:"buttonText"`
	SortOrder  int       `gorm:"not null;index" json:"sortOrder"`
	IsActive   bool      `gorm:"not null;index" json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ComingSoon teases an upcoming product or collection.
type ComingSoon struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Image       string     `json:"image"`
	LaunchDate  *time.Time `json:"launchDate"`
	IsActive    bool       `gorm:"not null;index" json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (ComingSoon) TableName() string { return "coming_soon_items" }
