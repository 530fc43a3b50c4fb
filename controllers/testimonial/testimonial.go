package testimonialControllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
)

type TestimonialInput struct {
	Name    string `json:"name" binding:"required,max=120"`
	Title   string `json:"title" binding:"max=120"`
	Content string `json:"content" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
}

type approvalInput struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// GET /testimonials
func GetTestimonials(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := []models.Testimonial{}
		if err := db.WithContext(c.Request.Context()).
			Where("is_active = ?", true).
			Order("created_at DESC").
			Find(&list).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch testimonials"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// SubmitTestimonial stores a testimonial hidden until an admin approves it.
// POST /testimonials
func SubmitTestimonial(db *gorm.DB, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input TestimonialInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if !models.ValidRating(input.Rating) {
			common.RespondError(c, models.ErrInvalidRating)
			return
		}

		t := models.Testimonial{
			UserID:   middleware.UserID(c),
			Name:     strings.TrimSpace(input.Name),
			Title:    strings.TrimSpace(input.Title),
			Content:  strings.TrimSpace(input.Content),
			Rating:   input.Rating,
			IsActive: false,
		}
		ctx := c.Request.Context()
		if err := db.WithContext(ctx).Create(&t).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save testimonial"})
			return
		}

		common.Publish(ctx, pub, events.TestimonialSubmitted, t)
		c.JSON(http.StatusCreated, gin.H{"message": "Thanks! Your testimonial will appear once approved", "data": t})
	}
}

// GET /admin/testimonials
func GetAllTestimonials(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		list := []models.Testimonial{}
		if err := db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&list).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch testimonials"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// PATCH /admin/testimonials/:id/active
func SetTestimonialActive(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		var input approvalInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		ctx := c.Request.Context()
		var t models.Testimonial
		if err := db.WithContext(ctx).First(&t, id).Error; err != nil {
			common.RespondError(c, err)
			return
		}
		if err := db.WithContext(ctx).Model(&t).Update("is_active", *input.IsActive).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update testimonial"})
			return
		}
		t.IsActive = *input.IsActive
		c.JSON(http.StatusOK, t)
	}
}

// DELETE /admin/testimonials/:id
func DeleteTestimonial(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		result := db.WithContext(c.Request.Context()).Delete(&models.Testimonial{}, id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete testimonial"})
			return
		}
		if result.RowsAffected == 0 {
			common.RespondError(c, models.ErrNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Testimonial deleted"})
	}
}
