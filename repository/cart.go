package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/storefront-api/models"
)

// CartRepository stores cart lines. Every query is scoped by user id.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// FindByRef returns the user's line for ref, or models.ErrCartLineNotFound.
func (r *CartRepository) FindByRef(ctx context.Context, userID string, ref models.LineRef) (*models.CartLine, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	switch ref.Kind() {
	case models.ItemKindProduct:
		q = q.Where("product_id = ?", ref.ID())
	case models.ItemKindFlashSale:
		q = q.Where("flash_sale_id = ?", ref.ID())
	default:
		return nil, models.ErrInvalidReference
	}

	var line models.CartLine
	err := q.Clauses(clause.Locking{Strength: "UPDATE"}).First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrCartLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cart line %s: %w", ref, err)
	}
	return &line, nil
}

// Get returns one of the user's lines with its product and flash sale loaded.
func (r *CartRepository) Get(ctx context.Context, userID string, lineID uint) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("FlashSale").
		Where("id = ? AND user_id = ?", lineID, userID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrCartLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart line %d: %w", lineID, err)
	}
	return &line, nil
}

func (r *CartRepository) Create(ctx context.Context, line *models.CartLine) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(line).Error; err != nil {
		return fmt.Errorf("create cart line: %w", err)
	}
	return nil
}

// UpdateQuantity writes quantity and rewrites item_kind from the line's reference.
func (r *CartRepository) UpdateQuantity(ctx context.Context, line *models.CartLine, quantity int) error {
	err := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("id = ? AND user_id = ?", line.ID, line.UserID).
		Updates(map[string]interface{}{
			"quantity":  quantity,
			"item_kind": line.Ref().Kind(),
		}).Error
	if err != nil {
		return fmt.Errorf("update cart line %d: %w", line.ID, err)
	}
	line.Quantity = quantity
	return nil
}

func (r *CartRepository) Delete(ctx context.Context, userID string, lineID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		Delete(&models.CartLine{})
	if result.Error != nil {
		return fmt.Errorf("delete cart line %d: %w", lineID, result.Error)
	}
	if result.RowsAffected == 0 {
		return models.ErrCartLineNotFound
	}
	return nil
}

// Clear deletes every line the user owns and reports how many were removed.
func (r *CartRepository) Clear(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartLine{})
	if result.Error != nil {
		return 0, fmt.Errorf("clear cart: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// List returns the user's lines, oldest first. Preload skips soft-deleted catalog rows, so a line
// whose product and flash sale both failed to load points at nothing and is left out. A line whose
// entity merely went inactive is kept so the user can see it and remove it.
func (r *CartRepository) List(ctx context.Context, userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("FlashSale").
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}

	visible := make([]models.CartLine, 0, len(lines))
	for _, line := range lines {
		if line.Resolved() {
			visible = append(visible, line)
		}
	}
	return visible, nil
}
