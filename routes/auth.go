package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

// SetupAuthRoutes registers all “/auth/*” endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimit(d.Limiter))
	{
		authGroup.POST("/guest", auth.CreateGuestUser(d.DB, d.Config.JWT))
	}
}
