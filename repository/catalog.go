package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/storefront-api/models"
)

// CatalogRepository answers the product and flash-sale lookups the cart and reviews depend on.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindActiveProduct returns the product with id if it is active and not deleted.
func (r *CatalogRepository) FindActiveProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &p, nil
}

// LockProduct loads the product with a row lock held until the surrounding transaction ends.
// Inactive products are returned as well.
func (r *CatalogRepository) LockProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock product %d: %w", id, err)
	}
	return &p, nil
}

// ReserveStock locks an active product row and checks that quantity units are in stock.
// Stock is only read; callers must run this inside the transaction that writes the cart line
// so concurrent adds against the same product serialize on the lock.
func (r *CatalogRepository) ReserveStock(ctx context.Context, productID uint, quantity int) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_active = ?", productID, true).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reserve stock for product %d: %w", productID, err)
	}
	if quantity > p.Stock {
		return &p, models.ErrInsufficientStock
	}
	return &p, nil
}

// FindActiveFlashSale returns the sale if it is active and now lies inside its window.
// The row stays locked for the rest of the transaction.
func (r *CatalogRepository) FindActiveFlashSale(ctx context.Context, id uint, now time.Time) (*models.FlashSale, error) {
	var sale models.FlashSale
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_active = ?", id, true).
		First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrFlashSaleUnavailable
	}
	if err != nil {
		return nil, fmt.Errorf("find flash sale %d: %w", id, err)
	}
	// Window checked here rather than in SQL so the comparison does not depend on how each
	// driver stores timestamps.
	if !sale.AvailableAt(now) {
		return nil, models.ErrFlashSaleUnavailable
	}
	return &sale, nil
}

// ListLiveFlashSales returns active sales whose window contains now, soonest ending first.
func (r *CatalogRepository) ListLiveFlashSales(ctx context.Context, now time.Time) ([]models.FlashSale, error) {
	var sales []models.FlashSale
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("end_date ASC").
		Find(&sales).Error; err != nil {
		return nil, fmt.Errorf("list flash sales: %w", err)
	}

	live := make([]models.FlashSale, 0, len(sales))
	for _, s := range sales {
		if s.AvailableAt(now) {
			live = append(live, s)
		}
	}
	return live, nil
}
