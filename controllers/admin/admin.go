package adminController

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
)

// GET /admin/users
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.WithContext(c.Request.Context()).Order("created_at DESC")
		if role := c.Query("role"); role != "" {
			r, err := models.ParseRole(role)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
				return
			}
			query = query.Where("role = ?", r)
		}

		users := []models.User{}
		if err := query.Find(&users).Error; err != nil {
			zap.L().Error("failed to fetch users", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

type DashboardStats struct {
	TotalProducts       int64 `json:"totalProducts"`
	ActiveProducts      int64 `json:"activeProducts"`
	OutOfStockProducts  int64 `json:"outOfStockProducts"`
	LiveFlashSales      int   `json:"liveFlashSales"`
	TotalUsers          int64 `json:"totalUsers"`
	TotalReviews        int64 `json:"totalReviews"`
	PendingTestimonials int64 `json:"pendingTestimonials"`
	OpenCartLines       int64 `json:"openCartLines"`
	TotalOrders         int64 `json:"totalOrders"`
}

// GetDashboardStats returns the catalog and engagement counters shown on the dashboard.
// Orders are not handled by this service, so TotalOrders is always zero.
// GET /admin/stats
func GetDashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		tx := db.WithContext(ctx)
		var stats DashboardStats

		counts := []struct {
			dst   *int64
			query *gorm.DB
		}{
			{&stats.TotalProducts, tx.Model(&models.Product{})},
			{&stats.ActiveProducts, tx.Model(&models.Product{}).Where("is_active = ?", true)},
			{&stats.OutOfStockProducts, tx.Model(&models.Product{}).Where("is_active = ? AND stock <= 0", true)},
			{&stats.TotalUsers, tx.Model(&models.User{})},
			{&stats.TotalReviews, tx.Model(&models.Review{}).Where("is_active = ?", true)},
			{&stats.PendingTestimonials, tx.Model(&models.Testimonial{}).Where("is_active = ?", false)},
			{&stats.OpenCartLines, tx.Model(&models.CartLine{})},
		}
		for _, q := range counts {
			if err := q.query.Count(q.dst).Error; err != nil {
				zap.L().Error("failed to compute stats", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
				return
			}
		}

		live, err := repository.NewCatalogRepository(db).ListLiveFlashSales(ctx, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
			return
		}
		stats.LiveFlashSales = len(live)

		c.JSON(http.StatusOK, stats)
	}
}
