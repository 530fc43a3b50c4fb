package auth

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/models"
)

// POST /auth/guest
func CreateGuestUser(db *gorm.DB, cfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		guest := models.User{
			ID:       "guest_" + generateRandomString(16),
			Name:     "Guest",
			Provider: "guest",
			Role:     models.RoleGuest,
		}

		if err := db.WithContext(c.Request.Context()).Create(&guest).Error; err != nil {
			zap.L().Error("create guest failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create guest"})
			return
		}

		token, err := IssueToken(cfg.Secret, guest.ID, guest.Role, cfg.TTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"guestId":   guest.ID,
			"token":     token,
			"expiresAt": time.Now().Add(cfg.TTL),
		})
	}
}

func generateRandomString(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		return "rand_guest"
	}
	return hex.EncodeToString(bytes)
}
