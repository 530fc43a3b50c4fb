package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/storage"
)

// UpdateProduct updates an existing product by ID.
// Accepts the same fields as CreateProduct, all optional. A new image replaces the old one,
// which is deleted once the row is saved.
// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB, store storage.Store, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var product models.Product
		if err := db.WithContext(ctx).Preload("Categories").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load product"})
			return
		}

		if name, ok := c.GetPostForm("name"); ok {
			if strings.TrimSpace(name) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "name cannot be empty"})
				return
			}
			product.Name = strings.TrimSpace(name)
		}
		if description, ok := c.GetPostForm("description"); ok {
			product.Description = description
		}
		if priceStr, ok := c.GetPostForm("price"); ok {
			price, err := common.ParseMoney(priceStr)
			if err != nil || !price.Valid {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
				return
			}
			product.Price = price.Decimal
		}
		if compareStr, ok := c.GetPostForm("compare_price"); ok {
			compare, err := common.ParseMoney(compareStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid compare_price"})
				return
			}
			product.ComparePrice = compare
		}
		if stockStr, ok := c.GetPostForm("stock"); ok {
			stock, err := strconv.Atoi(stockStr)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
			product.Stock = stock
		}
		if active, ok := c.GetPostForm("is_active"); ok {
			product.IsActive = common.ParseBool(active, product.IsActive)
		}

		var categories []models.Category
		replaceCategories := false
		if raw, ok := c.GetPostForm("category_ids"); ok {
			ids, err := parseCategoryIDs(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_ids format"})
				return
			}
			if categories, err = loadCategories(db.WithContext(ctx), ids); err != nil {
				common.RespondError(c, err)
				return
			}
			replaceCategories = true
		}

		newImage, err := common.UploadImage(c, store, "image", "products")
		if err != nil {
			if errors.Is(err, common.ErrNotAnImage) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}
		oldImage := product.Image
		if newImage != "" {
			product.Image = newImage
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit(clause.Associations).Save(&product).Error; err != nil {
				return err
			}
			if replaceCategories {
				return tx.Model(&product).Association("Categories").Replace(categories)
			}
			return nil
		})
		if err != nil {
			common.DiscardImage(ctx, store, newImage)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		if newImage != "" && oldImage != newImage {
			common.DiscardImage(ctx, store, oldImage)
		}

		common.Publish(ctx, pub, events.ProductUpdated, product)
		c.JSON(http.StatusOK, product)
	}
}

type activeInput struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// SetProductActive shows or hides a product. Hidden products cannot be added to carts.
// PATCH /admin/products/:id/active
func SetProductActive(db *gorm.DB, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		var input activeInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		ctx := c.Request.Context()
		result := db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("is_active", *input.IsActive)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		var product models.Product
		if err := db.WithContext(ctx).First(&product, id).Error; err != nil {
			common.RespondError(c, models.ErrProductNotFound)
			return
		}
		common.Publish(ctx, pub, events.ProductUpdated, product)
		c.JSON(http.StatusOK, product)
	}
}
