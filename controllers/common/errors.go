package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/models"
)

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidReference),
		errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrFlashSaleExpired),
		errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, models.ErrInvalidSaleWindow),
		errors.Is(err, models.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrFlashSaleUnavailable),
		errors.Is(err, models.ErrFlashSaleNotFound),
		errors.Is(err, models.ErrCartLineNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrReviewNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrWishlistItemMissing),
		errors.Is(err, models.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateReview):
		return http.StatusConflict
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as {"error": message}. Unknown errors are logged and hidden behind a
// generic message.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = models.ErrNotFound
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
