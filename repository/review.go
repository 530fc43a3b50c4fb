package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/models"
)

// RatingSummary is the stored rating aggregate of a product.
type RatingSummary struct {
	ProductID     uint            `json:"productId"`
	AverageRating decimal.Decimal `json:"averageRating"`
	TotalReviews  int             `json:"totalReviews"`
}

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).First(&review, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find review %d: %w", id, err)
	}
	return &review, nil
}

// ExistsForUser reports whether the user already reviewed the product, active or not.
func (r *ReviewRepository) ExistsForUser(ctx context.Context, userID string, productID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count reviews: %w", err)
	}
	return count > 0, nil
}

// Update writes the given columns of the review. It does not check that the review exists.
func (r *ReviewRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update review %d: %w", id, err)
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Review{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete review %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrReviewNotFound
	}
	return nil
}

// ListActive returns the product's active reviews, newest first.
func (r *ReviewRepository) ListActive(ctx context.Context, productID uint) ([]models.Review, error) {
	reviews := []models.Review{}
	if err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// List returns every review for moderation, optionally filtered by product.
func (r *ReviewRepository) List(ctx context.Context, productID uint) ([]models.Review, error) {
	reviews := []models.Review{}
	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC")
	if productID != 0 {
		q = q.Where("product_id = ?", productID)
	}
	if err := q.Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

// RecomputeProductRating rebuilds the product's rating aggregate from its active reviews.
// The average is rounded to two places; no active reviews gives 0 and 0.
func (r *ReviewRepository) RecomputeProductRating(ctx context.Context, productID uint) (RatingSummary, error) {
	var row struct {
		Avg   *float64
		Total int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("AVG(rating) AS avg, COUNT(*) AS total").
		Where("product_id = ? AND is_active = ?", productID, true).
		Scan(&row).Error; err != nil {
		return RatingSummary{}, fmt.Errorf("aggregate ratings for product %d: %w", productID, err)
	}

	summary := RatingSummary{
		ProductID:     productID,
		AverageRating: decimal.Zero,
		TotalReviews:  int(row.Total),
	}
	if row.Avg != nil && row.Total > 0 {
		summary.AverageRating = decimal.NewFromFloat(*row.Avg).Round(2)
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"average_rating": summary.AverageRating,
			"total_reviews":  summary.TotalReviews,
		}).Error; err != nil {
		return RatingSummary{}, fmt.Errorf("store rating for product %d: %w", productID, err)
	}
	return summary, nil
}
