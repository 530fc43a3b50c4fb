package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/storage"
)

// CreateProduct creates a product from a multipart form with an optional image.
// POST /admin/products
func CreateProduct(db *gorm.DB, store storage.Store, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		priceStr := c.PostForm("price")
		if name == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
			return
		}

		price, err := common.ParseMoney(priceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid price"})
			return
		}
		comparePrice, err := common.ParseMoney(c.PostForm("compare_price"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid compare_price"})
			return
		}
		stock := 0
		if s := c.PostForm("stock"); s != "" {
			stock, err = strconv.Atoi(s)
			if err != nil || stock < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid stock"})
				return
			}
		}

		categoryIDs, err := parseCategoryIDs(c.PostForm("category_ids"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_ids format"})
			return
		}
		ctx := c.Request.Context()
		categories, err := loadCategories(db.WithContext(ctx), categoryIDs)
		if err != nil {
			common.RespondError(c, err)
			return
		}

		imageURL, err := common.UploadImage(c, store, "image", "products")
		if err != nil {
			if errors.Is(err, common.ErrNotAnImage) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
			return
		}

		product := models.Product{
			Name:         name,
			Description:  c.PostForm("description"),
			Image:        imageURL,
			Price:        price.Decimal,
			ComparePrice: comparePrice,
			Stock:        stock,
			IsActive:     common.ParseBool(c.PostForm("is_active"), true),
			Categories:   categories,
		}

		if err := db.WithContext(ctx).Create(&product).Error; err != nil {
			common.DiscardImage(ctx, store, imageURL)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		common.Publish(ctx, pub, events.ProductCreated, product)
		c.JSON(http.StatusCreated, product)
	}
}
