package productcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/storage"
)

// POST /admin/categories
func CreateCategory(db *gorm.DB, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		slug := models.Slugify(c.DefaultPostForm("slug", name))
		if slug == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slug"})
			return
		}
		ctx := c.Request.Context()

		var taken int64
		if err := db.WithContext(ctx).Model(&models.Category{}).
			Where("name = ? OR slug = ?", name, slug).
			Count(&taken).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			return
		}
		if taken > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Category name or slug already exists"})
			return
		}

		imageURL, err := common.UploadImage(c, store, "image", "categories")
		if err != nil {
			if errors.Is(err, common.ErrNotAnImage) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}

		category := models.Category{
			Name:        name,
			Slug:        slug,
			Description: c.PostForm("description"),
			Image:       imageURL,
		}
		if err := db.WithContext(ctx).Create(&category).Error; err != nil {
			common.DiscardImage(ctx, store, imageURL)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			return
		}

		c.JSON(http.StatusCreated, category)
	}
}

// GetCategoryByID returns a category with its active products.
// GET /categories/:id
func GetCategoryByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}

		var category models.Category
		if err := db.WithContext(c.Request.Context()).
			Preload("Products", "is_active = ?", true).
			First(&category, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
			return
		}

		c.JSON(http.StatusOK, category)
	}
}

// GetAllCategories returns all categories ordered by name.
// GET /categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories := []models.Category{}
		if err := db.WithContext(c.Request.Context()).Order("name ASC").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// PUT /admin/categories/:id
func UpdateCategory(db *gorm.DB, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var category models.Category
		if err := db.WithContext(ctx).First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		if v := strings.TrimSpace(c.PostForm("name")); v != "" {
			category.Name = v
		}
		if v := c.PostForm("slug"); v != "" {
			if category.Slug = models.Slugify(v); category.Slug == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slug"})
				return
			}
		}
		if v, ok := c.GetPostForm("description"); ok {
			category.Description = v
		}

		newImage, err := common.UploadImage(c, store, "image", "categories")
		if err != nil {
			if errors.Is(err, common.ErrNotAnImage) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}
		oldImage := category.Image
		if newImage != "" {
			category.Image = newImage
		}

		if err := db.WithContext(ctx).Save(&category).Error; err != nil {
			common.DiscardImage(ctx, store, newImage)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		if newImage != "" {
			common.DiscardImage(ctx, store, oldImage)
		}

		c.JSON(http.StatusOK, category)
	}
}

// DELETE /admin/categories/:id
func DeleteCategory(db *gorm.DB, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var cat models.Category
		if err := db.WithContext(ctx).First(&cat, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&cat).Association("Products").Clear(); err != nil {
				return err
			}
			return tx.Delete(&cat).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		common.DiscardImage(ctx, store, cat.Image)

		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
