package productcontroller

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/models"
)

// parseCategoryIDs reads a comma separated id list such as "1, 4,9".
func parseCategoryIDs(raw string) ([]uint, error) {
	var ids []uint
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseUint(tok, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid category id %q", tok)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// loadCategories fetches every category in ids, failing if any is missing.
func loadCategories(db *gorm.DB, ids []uint) ([]models.Category, error) {
	categories := []models.Category{}
	if len(ids) == 0 {
		return categories, nil
	}
	if err := db.Where("id IN ?", ids).Find(&categories).Error; err != nil {
		return nil, err
	}
	if len(categories) != len(uniqueIDs(ids)) {
		return nil, models.ErrCategoryNotFound
	}
	return categories, nil
}

func uniqueIDs(ids []uint) map[uint]struct{} {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return seen
}
