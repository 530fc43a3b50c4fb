package flashSaleControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
	"github.com/junaidrashid-git/storefront-api/storage"
)

// GET /flash-sales
func GetLiveFlashSales(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sales, err := repository.NewCatalogRepository(db).ListLiveFlashSales(c.Request.Context(), time.Now())
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, sales)
	}
}

// GET /flash-sales/:id
func GetFlashSale(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		var sale models.FlashSale
		err := db.WithContext(c.Request.Context()).Where("is_active = ?", true).First(&sale, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.RespondError(c, models.ErrFlashSaleNotFound)
			return
		}
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"flashSale": sale, "live": sale.AvailableAt(time.Now())})
	}
}

// GET /admin/flash-sales
func GetAllFlashSales(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sales := []models.FlashSale{}
		if err := db.WithContext(c.Request.Context()).Order("start_date DESC").Find(&sales).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flash sales"})
			return
		}
		c.JSON(http.StatusOK, sales)
	}
}

// POST /admin/flash-sales
func CreateFlashSale(db *gorm.DB, store storage.Store, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		sale := models.FlashSale{IsActive: true}
		if strings.TrimSpace(c.PostForm("title")) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		if err := applyForm(c, &sale); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := sale.Validate(); err != nil {
			common.RespondError(c, err)
			return
		}
		ctx := c.Request.Context()

		imageURL, err := common.UploadImage(c, store, "image", "flash-sales")
		if err != nil {
			if errors.Is(err, common.ErrNotAnImage) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}
		sale.Image = imageURL

		if err := db.WithContext(ctx).Create(&sale).Error; err != nil {
			common.DiscardImage(ctx, store, imageURL)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create flash sale"})
			return
		}

		common.Publish(ctx, pub, events.FlashSaleCreated, sale)
		c.JSON(http.StatusCreated, sale)
	}
}

// PUT /admin/flash-sales/:id
func UpdateFlashSale(db *gorm.DB, store storage.Store, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		var sale models.FlashSale
		if err := db.WithContext(ctx).First(&sale, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				common.RespondError(c, models.ErrFlashSaleNotFound)
				return
			}
			common.RespondError(c, err)
			return
		}

		if err := applyForm(c, &sale); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := sale.Validate(); err != nil {
			common.RespondError(c, err)
			return
		}

		newImage, err := common.UploadImage(c, store, "image", "flash-sales")
		if err != nil {
			if errors.Is(err, common.ErrNotAnImage) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}
		oldImage := sale.Image
		if newImage != "" {
			sale.Image = newImage
		}

		if err := db.WithContext(ctx).Save(&sale).Error; err != nil {
			common.DiscardImage(ctx, store, newImage)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update flash sale"})
			return
		}
		if newImage != "" {
			common.DiscardImage(ctx, store, oldImage)
		}

		common.Publish(ctx, pub, events.FlashSaleUpdated, sale)
		c.JSON(http.StatusOK, sale)
	}
}

// DeleteFlashSale soft-deletes the sale. Cart lines pointing at it stop resolving.
// DELETE /admin/flash-sales/:id
func DeleteFlashSale(db *gorm.DB, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		ctx := c.Request.Context()

		result := db.WithContext(ctx).Delete(&models.FlashSale{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete flash sale"})
			return
		}
		if result.RowsAffected == 0 {
			common.RespondError(c, models.ErrFlashSaleNotFound)
			return
		}

		common.Publish(ctx, pub, events.FlashSaleDeleted, gin.H{"id": id})
		c.JSON(http.StatusOK, gin.H{"message": "Flash sale deleted successfully"})
	}
}

// applyForm copies the submitted form fields onto sale. Missing fields are left unchanged.
// The discount is derived from the prices whenever both are known.
func applyForm(c *gin.Context, sale *models.FlashSale) error {
	if v, ok := c.GetPostForm("title"); ok {
		if strings.TrimSpace(v) == "" {
			return errors.New("title cannot be empty")
		}
		sale.Title = strings.TrimSpace(v)
	}
	if v, ok := c.GetPostForm("description"); ok {
		sale.Description = v
	}
	if v, ok := c.GetPostForm("current_price"); ok {
		price, err := common.ParseMoney(v)
		if err != nil {
			return errors.New("invalid current_price")
		}
		sale.CurrentPrice = price
	}
	if v, ok := c.GetPostForm("old_price"); ok {
		price, err := common.ParseMoney(v)
		if err != nil {
			return errors.New("invalid old_price")
		}
		sale.OldPrice = price
	}
	if v, ok := c.GetPostForm("discount_percentage"); ok && v != "" {
		pct, err := strconv.Atoi(v)
		if err != nil || pct < 0 || pct > 100 {
			return errors.New("invalid discount_percentage")
		}
		sale.DiscountPercentage = pct
	}
	if v, ok := c.GetPostForm("start_date"); ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return errors.New("start_date must be RFC 3339")
		}
		sale.StartDate = t.UTC()
	}
	if v, ok := c.GetPostForm("end_date"); ok {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return errors.New("end_date must be RFC 3339")
		}
		sale.EndDate = t.UTC()
	}
	if v, ok := c.GetPostForm("is_active"); ok {
		sale.IsActive = common.ParseBool(v, sale.IsActive)
	}
	sale.DeriveDiscount()
	return nil
}
