package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/models"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func seedProduct(t *testing.T, db *gorm.DB, price string, stock int, active bool) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:     "Linen Shirt",
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: active,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedFlashSale(t *testing.T, db *gorm.DB, current, old string, start, end time.Time, active bool) *models.FlashSale {
	t.Helper()
	sale := &models.FlashSale{
		Title:     "Weekend Deal",
		StartDate: start,
		EndDate:   end,
		IsActive:  active,
	}
	if current != "" {
		sale.CurrentPrice = decimal.NewNullDecimal(decimal.RequireFromString(current))
	}
	if old != "" {
		sale.OldPrice = decimal.NewNullDecimal(decimal.RequireFromString(old))
	}
	require.NoError(t, db.Create(sale).Error)
	return sale
}

func seedUser(t *testing.T, db *gorm.DB, id, name string) *models.User {
	t.Helper()
	u := &models.User{ID: id, Name: name, Role: models.RoleCustomer}
	require.NoError(t, db.Create(u).Error)
	return u
}
