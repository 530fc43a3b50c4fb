package productcontroller

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/models"
)

var sortColumns = map[string]string{
	"created_at": "products.created_at",
	"price":      "products.price",
	"name":       "products.name",
	"rating":     "products.average_rating",
	"stock":      "products.stock",
}

// GET /products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return listProducts(db, true)
}

// GET /admin/products
func GetAdminProducts(db *gorm.DB) gin.HandlerFunc {
	return listProducts(db, false)
}

func listProducts(db *gorm.DB, activeOnly bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := strings.TrimSpace(c.Query("search"))
		categoryID := c.Query("category_id")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")
		sortBy := c.DefaultQuery("sort_by", "created_at")
		sortOrder := strings.ToLower(c.DefaultQuery("order", "desc"))
		if sortOrder != "asc" && sortOrder != "desc" {
			sortOrder = "desc"
		}
		column, ok := sortColumns[sortBy]
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort_by"})
			return
		}

		query := db.WithContext(c.Request.Context()).Model(&models.Product{}).Preload("Categories")
		if activeOnly {
			query = query.Where("products.is_active = ?", true)
		}

		if search != "" {
			likePattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ?", likePattern, likePattern)
		}

		if minPriceStr != "" {
			mp, err := decimal.NewFromString(minPriceStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
			query = query.Where("products.price >= ?", mp)
		}
		if maxPriceStr != "" {
			mp, err := decimal.NewFromString(maxPriceStr)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
			query = query.Where("products.price <= ?", mp)
		}

		if categoryID != "" {
			cid, err := strconv.ParseUint(categoryID, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category_id"})
				return
			}
			query = query.
				Joins("JOIN product_categories pc ON pc.product_id = products.id").
				Where("pc.category_id = ?", uint(cid))
		}

		products := []models.Product{}
		if err := query.Order(fmt.Sprintf("%s %s, products.id %s", column, sortOrder, sortOrder)).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
