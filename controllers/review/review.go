package reviewControllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/services"
)

type CreateReviewInput struct {
	Rating  int    `json:"rating" binding:"required"`
	Title   string `json:"title" binding:"max=255"`
	Comment string `json:"comment"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating"`
	Title   *string `json:"title" binding:"omitempty,max=255"`
	Comment *string `json:"comment"`
}

type flagInput struct {
	Value *bool `json:"value" binding:"required"`
}

// GET /products/:id/reviews
func GetProductReviews(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		list, err := reviews.ListForProduct(c.Request.Context(), productID)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// POST /products/:id/reviews
func CreateReview(db *gorm.DB, reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		var input CreateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		ctx := c.Request.Context()
		user := models.User{ID: middleware.UserID(c)}
		if err := db.WithContext(ctx).Limit(1).Find(&user, "id = ?", user.ID).Error; err != nil {
			common.RespondError(c, err)
			return
		}

		review, summary, err := reviews.Create(ctx, &user, productID, services.ReviewInput{
			Rating:  input.Rating,
			Title:   input.Title,
			Comment: input.Comment,
		})
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"review": review, "rating": summary})
	}
}

// PUT /reviews/:id
func UpdateReview(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		var input UpdateReviewInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		review, err := reviews.Update(c.Request.Context(), actor(c), id, services.ReviewPatch{
			Rating:  input.Rating,
			Title:   input.Title,
			Comment: input.Comment,
		})
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

// DELETE /reviews/:id
func DeleteReview(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		if err := reviews.Delete(c.Request.Context(), actor(c), id); err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	}
}

// GET /admin/reviews
func GetAllReviews(reviews *services.ReviewService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var productID uint
		if raw := c.Query("product_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
				return
			}
			productID = uint(id)
		}
		list, err := reviews.ListAll(c.Request.Context(), productID)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// PATCH /admin/reviews/:id/verify
func VerifyReview(reviews *services.ReviewService) gin.HandlerFunc {
	return flagHandler(reviews.SetVerified)
}

// PATCH /admin/reviews/:id/active
func SetReviewActive(reviews *services.ReviewService) gin.HandlerFunc {
	return flagHandler(reviews.SetActive)
}

func flagHandler(set func(ctx context.Context, id uint, value bool) (*models.Review, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := common.ParseID(c, "id")
		if !ok {
			return
		}
		var input flagInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		review, err := set(c.Request.Context(), id, *input.Value)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, review)
	}
}

func actor(c *gin.Context) services.Actor {
	return services.Actor{UserID: middleware.UserID(c), IsAdmin: middleware.IsAdmin(c)}
}
