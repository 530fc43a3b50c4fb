package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/models"
)

// Context keys set by the auth middleware.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// APIKeyUserID identifies admin requests authenticated with the static API key.
const APIKeyUserID = "api-key"

// ValidateToken requires a valid bearer token and stores the caller's id and role in the context.
func ValidateToken(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, secret) {
			return
		}
		c.Next()
	}
}

// RequireAdmin lets through requests carrying the admin API key or a token with the admin role.
func RequireAdmin(secret, apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey != "" && c.GetHeader("X-API-KEY") == apiKey {
			c.Set(ContextUserID, APIKeyUserID)
			c.Set(ContextRole, models.RoleAdmin)
			c.Next()
			return
		}

		if !authenticate(c, secret) {
			return
		}
		if Role(c) != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, secret string) bool {
	tokenString := c.GetHeader("Authorization")
	if tokenString == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
		return false
	}
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))

	claims, err := auth.ParseToken(secret, tokenString)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextRole, claims.Role)
	return true
}

// UserID returns the authenticated caller's id, or "" outside the auth middleware.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func Role(c *gin.Context) models.Role {
	role, _ := c.Get(ContextRole)
	r, _ := role.(models.Role)
	return r
}

func IsAdmin(c *gin.Context) bool {
	return Role(c) == models.RoleAdmin
}
