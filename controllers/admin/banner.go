package adminController

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/storage"
)

// GetBanners lists the active hero banners in display order.
// GET /banners
func GetBanners(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		banners := []models.HeroBanner{}
		if err := db.WithContext(c.Request.Context()).
			Where("is_active = ?", true).
			Order("sort_order ASC, id ASC").
			Find(&banners).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get banners"})
			return
		}
		c.JSON(http.StatusOK, banners)
	}
}

// GET /admin/banners
func GetAllBanners(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		banners := []models.HeroBanner{}
		if err := db.WithContext(c.Request.Context()).Order("sort_order ASC, id ASC").Find(&banners).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get banners"})
			return
		}
		c.JSON(http.StatusOK, banners)
	}
}

// UploadBanner stores the image and creates the banner row pointing at it.
// POST /admin/banners
func UploadBanner(db *gorm.DB, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		title := strings.TrimSpace(c.PostForm("title"))
		if title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		banner := models.HeroBanner{Title: title, IsActive: true}
		if err := applyBannerForm(c, &banner); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		imageURL, err := common.UploadImage(c, store, "image", "banners")
		if err != nil {
			if errors.Is(err, common.ErrNotAnImage) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}
		if imageURL == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
			return
		}
		banner.Image = imageURL

		if err := db.WithContext(ctx).Create(&banner).Error; err != nil {
			common.DiscardImage(ctx, store, imageURL)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB save failed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Banner uploaded", "data": banner})
	}
}

// UpdateBanner edits a banner. A new image replaces the old one, which is deleted after the
// row is saved.
// PUT /admin/banners/:id
func UpdateBanner(db *gorm.DB, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var banner models.HeroBanner
		if err := db.WithContext(ctx).First(&banner, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if v, ok := c.GetPostForm("title"); ok {
			if strings.TrimSpace(v) == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
				return
			}
			banner.Title = strings.TrimSpace(v)
		}
		if err := applyBannerForm(c, &banner); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		newImage, err := common.UploadImage(c, store, "image", "banners")
		if err != nil {
			if errors.Is(err, common.ErrNotAnImage) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}
		oldImage := banner.Image
		if newImage != "" {
			banner.Image = newImage
		}

		if err := db.WithContext(ctx).Save(&banner).Error; err != nil {
			common.DiscardImage(ctx, store, newImage)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB save failed"})
			return
		}
		if newImage != "" {
			common.DiscardImage(ctx, store, oldImage)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Banner updated", "data": banner})
	}
}

// DeleteBanner deletes the row, then the image behind it.
// DELETE /admin/banners/:id
func DeleteBanner(db *gorm.DB, store storage.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var banner models.HeroBanner
		if err := db.WithContext(ctx).First(&banner, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Banner not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}

		if err := db.WithContext(ctx).Delete(&banner).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete from database"})
			return
		}
		common.DiscardImage(ctx, store, banner.Image)

		c.JSON(http.StatusOK, gin.H{"message": "Banner deleted"})
	}
}

func applyBannerForm(c *gin.Context, banner *models.HeroBanner) error {
	if v, ok := c.GetPostForm("subtitle"); ok {
		banner.Subtitle = v
	}
	if v, ok := c.GetPostForm("link_url"); ok {
		banner.LinkURL = v
	}
	if v, ok := c.GetPostForm("button_text"); ok {
		banner.ButtonText = v
	}
	if v, ok := c.GetPostForm("sort_order"); ok && v != "" {
		order, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid sort_order")
		}
		banner.SortOrder = order
	}
	if v, ok := c.GetPostForm("is_active"); ok {
		banner.IsActive = common.ParseBool(v, banner.IsActive)
	}
	return nil
}
