package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
	RoleGuest    Role = "guest"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleCustomer, RoleAdmin, RoleGuest:
		return r, nil
	default:
		return "", ErrInvalidRole
	}
}

type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Email     string    `gorm:"size:255;index" json:"email"`
	Phone     string    `gorm:"size:40" json:"phone"`
	Name      string    `gorm:"size:120" json:"name"`
	Picture   string    `json:"picture"`
	Provider  string    `gorm:"size:40" json:"provider"`
	Role      Role      `gorm:"type:varchar(16);not null;index" json:"role"`
	Address   Address   `gorm:"embedded" json:"address"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Address model embedded in User
type Address struct {
	Country    string `json:"country"`
	State      string `json:"state"`
	City       string `json:"city"`
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
}
