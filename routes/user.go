package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"
	reviewControllers "github.com/junaidrashid-git/storefront-api/controllers/review"
	testimonialControllers "github.com/junaidrashid-git/storefront-api/controllers/testimonial"
	userControllers "github.com/junaidrashid-git/storefront-api/controllers/user"
	wishlistControllers "github.com/junaidrashid-git/storefront-api/controllers/wishlist"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

// SetupUserRoutes registers the endpoints that act for the signed-in user. Requires JWT.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("")
	userGroup.Use(middleware.ValidateToken(d.Config.JWT.Secret), middleware.RateLimit(d.Limiter))
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/user", userControllers.GetUser(d.DB))
		userGroup.PUT("/user", userControllers.UpdateUser(d.DB))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetCart(d.Cart))
			cartGroup.GET("/summary", cartControllers.GetCartSummary(d.Cart))
			cartGroup.POST("", cartControllers.AddToCart(d.Cart))
			cartGroup.PUT("/:id", cartControllers.UpdateCartItem(d.Cart))
			cartGroup.DELETE("/:id", cartControllers.RemoveCartItem(d.Cart))
			cartGroup.DELETE("", cartControllers.ClearCart(d.Cart))
		}

		// ──────────────── Wishlist ────────────────
		wishlistGroup := userGroup.Group("/wishlist")
		{
			wishlistGroup.GET("", wishlistControllers.GetWishlist(d.DB))
			wishlistGroup.POST("", wishlistControllers.AddToWishlist(d.DB))
			wishlistGroup.DELETE("/:productId", wishlistControllers.RemoveFromWishlist(d.DB))
		}

		// ──────────────── Reviews & Testimonials ────────────────
		userGroup.POST("/products/:id/reviews", reviewControllers.CreateReview(d.DB, d.Reviews))
		userGroup.PUT("/reviews/:id", reviewControllers.UpdateReview(d.Reviews))
		userGroup.DELETE("/reviews/:id", reviewControllers.DeleteReview(d.Reviews))
		userGroup.POST("/testimonials", testimonialControllers.SubmitTestimonial(d.DB, d.Events))
	}
}
