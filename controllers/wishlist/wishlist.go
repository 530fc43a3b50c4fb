package wishlistControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
)

type AddToWishlistInput struct {
	ProductID uint `json:"productId" binding:"required"`
}

// GET /wishlist
func GetWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := []models.WishlistItem{}
		if err := db.WithContext(c.Request.Context()).
			Joins("Product").
			Where("wishlist_items.user_id = ?", middleware.UserID(c)).
			Order("wishlist_items.created_at DESC").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch wishlist"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// AddToWishlist saves an active product to the caller's wishlist. Adding a product twice
// returns the existing entry.
// POST /wishlist
func AddToWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddToWishlistInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		ctx := c.Request.Context()
		userID := middleware.UserID(c)

		product, err := repository.NewCatalogRepository(db).FindActiveProduct(ctx, input.ProductID)
		if err != nil {
			common.RespondError(c, err)
			return
		}

		var item models.WishlistItem
		err = db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, product.ID).First(&item).Error
		if err == nil {
			item.Product = product
			c.JSON(http.StatusOK, item)
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
			return
		}

		item = models.WishlistItem{UserID: userID, ProductID: product.ID}
		if err := db.WithContext(ctx).Omit("Product").Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
			return
		}
		item.Product = product
		c.JSON(http.StatusCreated, item)
	}
}

// DELETE /wishlist/:productId
func RemoveFromWishlist(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := common.ParseID(c, "productId")
		if !ok {
			return
		}

		result := db.WithContext(c.Request.Context()).
			Where("user_id = ? AND product_id = ?", middleware.UserID(c), productID).
			Delete(&models.WishlistItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update wishlist"})
			return
		}
		if result.RowsAffected == 0 {
			common.RespondError(c, models.ErrWishlistItemMissing)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Removed from wishlist"})
	}
}
