package adminController

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/storage"
)

// GET /coming-soon
func GetComingSoon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := []models.ComingSoon{}
		if err := db.WithContext(c.Request.Context()).
			Where("is_active = ?", true).
			Order("launch_date ASC, id ASC").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get coming soon items"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// GET /admin/coming-soon
func GetAllComingSoon(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items := []models.ComingSoon{}
		if err := db.WithContext(c.Request.Context()).Order("id DESC").Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get coming soon items"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// POST /admin/coming-soon
func CreateComingSoon(db *gorm.DB, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := strings.TrimSpace(c.PostForm("title"))
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		item := models.ComingSoon{Title: title, IsActive: true}
		if err := applyComingSoonForm(c, &item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		imageURL, err := common.UploadImage(c, store, "image", "coming-soon")
		if err != nil {
			if errors.Is(err, common.ErrNotAnImage) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}
		item.Image = imageURL

		if err := db.WithContext(ctx).Create(&item).Error; err != nil {
			common.DiscardImage(ctx, store, imageURL)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB save failed"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// UpdateComingSoon edits an item, replacing and then deleting its image when a new one is sent.
// PUT /admin/coming-soon/:id
func UpdateComingSoon(db *gorm.DB, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var item models.ComingSoon
		if err := db.WithContext(ctx).First(&item, id).Error; err != nil {
			common.RespondError(c, err)
			return
		}

		if v, ok := c.GetPostForm("title"); ok {
			if strings.TrimSpace(v) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
				return
			}
			item.Title = strings.TrimSpace(v)
		}
		if err := applyComingSoonForm(c, &item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		newImage, err := common.UploadImage(c, store, "image", "coming-soon")
		if err != nil {
			if errors.Is(err, common.ErrNotAnImage) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}
		oldImage := item.Image
		if newImage != "" {
			item.Image = newImage
		}

		if err := db.WithContext(ctx).Save(&item).Error; err != nil {
			common.DiscardImage(ctx, store, newImage)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB save failed"})
			return
		}
		if newImage != "" {
			common.DiscardImage(ctx, store, oldImage)
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /admin/coming-soon/:id
func DeleteComingSoon(db *gorm.DB, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var item models.ComingSoon
		if err := db.WithContext(ctx).First(&item, id).Error; err != nil {
			common.RespondError(c, err)
			return
		}
		if err := db.WithContext(ctx).Delete(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete from database"})
			return
		}
		common.DiscardImage(ctx, store, item.Image)

		c.JSON(http.StatusOK, gin.H{"message": "Coming soon item deleted"})
	}
}

func applyComingSoonForm(c *gin.Context, item *models.ComingSoon) error {
	if v, ok := c.GetPostForm("description"); ok {
		item.Description = v
	}
	if v, ok := c.GetPostForm("launch_date"); ok {
		if v == "" {
			item.LaunchDate = nil
		} else {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				return errors.New("launch_date must be RFC 3339")
			}
			t = t.UTC()
			item.LaunchDate = &t
		}
	}
	if v, ok := c.GetPostForm("is_active"); ok {
		item.IsActive = common.ParseBool(v, item.IsActive)
	}
	return nil
}
