package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/junaidrashid-git/storefront-api/models"
)

// DeleteProduct soft-deletes a product and drops its category links. Cart lines pointing at it
// stop resolving and disappear from carts.
// DELETE /admin/products/:id
func DeleteProduct(db *gorm.DB, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var product models.Product
		if err := db.WithContext(ctx).First(&product, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
				return err
			}
			return tx.Delete(&product).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}

		common.Publish(ctx, pub, events.ProductDeleted, gin.H{"id": product.ID})
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
