package adminController

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
)

type roleInput struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUserRole promotes or demotes a user. Admins cannot change their own role.
// Existing tokens keep their old role until they expire.
// PATCH /admin/users/:id/role
func UpdateUserRole(db *gorm.DB, pub events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")
		var req roleInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		role, err := models.ParseRole(req.Role)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		if userID == middleware.UserID(c) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot change your own role"})
			return
		}

		ctx := c.Request.Context()
		var user models.User
		err = db.WithContext(ctx).First(&user, "id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.RespondError(c, models.ErrUserNotFound)
			return
		}
		if err != nil {
			common.RespondError(c, err)
			return
		}

		if err := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", user.ID).Update("role", role).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update role"})
			return
		}
		user.Role = role

		common.Publish(ctx, pub, events.UserRoleChanged, gin.H{"userId": user.ID, "role": role})
		c.JSON(http.StatusOK, gin.H{"message": "Role updated", "data": user})
	}
}
