package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/junaidrashid-git/storefront-api/controllers/admin"
	cartControllers "github.com/junaidrashid-git/storefront-api/controllers/cart"
	flashSaleControllers "github.com/junaidrashid-git/storefront-api/controllers/flashsale"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	reviewControllers "github.com/junaidrashid-git/storefront-api/controllers/review"
	testimonialControllers "github.com/junaidrashid-git/storefront-api/controllers/testimonial"
	"github.com/junaidrashid-git/storefront-api/middleware"
)

// SetupAdminRoutes registers all “/admin/*” endpoints. Requires the API key or an admin token.
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.RequireAdmin(d.Config.JWT.Secret, d.Config.Admin.APIKey))
	{
		// ─────────── Dashboard & Users ───────────
		adminGroup.GET("/stats", adminController.GetDashboardStats(d.DB))
		adminGroup.GET("/live", adminController.LiveEvents(d.Hub))
		adminGroup.GET("/users", adminController.GetAllUsers(d.DB))
		adminGroup.PATCH("/users/:id/role", adminController.UpdateUserRole(d.DB, d.Events))
		adminGroup.GET("/user-cart/:user_id", cartControllers.GetAdminUserCart(d.Cart))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", productcontroller.GetAdminProducts(d.DB))
			productAdmin.POST("", productcontroller.CreateProduct(d.DB, d.Store, d.Events))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.DB, d.Store, d.Events))
			productAdmin.PATCH("/:id/active", productcontroller.SetProductActive(d.DB, d.Events))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.DB, d.Events))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.DB))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.DB))
		}

		// ─────────── Category Management ───────────
		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.GET("", productcontroller.GetAllCategories(d.DB))
			categoryAdmin.POST("", productcontroller.CreateCategory(d.DB, d.Store))
			categoryAdmin.PUT("/:id", productcontroller.UpdateCategory(d.DB, d.Store))
			categoryAdmin.DELETE("/:id", productcontroller.DeleteCategory(d.DB, d.Store))
		}

		// ─────────── Flash Sales ───────────
		flashAdmin := adminGroup.Group("/flash-sales")
		{
			flashAdmin.GET("", flashSaleControllers.GetAllFlashSales(d.DB))
			flashAdmin.POST("", flashSaleControllers.CreateFlashSale(d.DB, d.Store, d.Events))
			flashAdmin.PUT("/:id", flashSaleControllers.UpdateFlashSale(d.DB, d.Store, d.Events))
			flashAdmin.DELETE("/:id", flashSaleControllers.DeleteFlashSale(d.DB, d.Events))
		}

		// ─────────── Reviews & Testimonials ───────────
		adminGroup.GET("/reviews", reviewControllers.GetAllReviews(d.Reviews))
		adminGroup.PATCH("/reviews/:id/verify", reviewControllers.VerifyReview(d.Reviews))
		adminGroup.PATCH("/reviews/:id/active", reviewControllers.SetReviewActive(d.Reviews))
		adminGroup.DELETE("/reviews/:id", reviewControllers.DeleteReview(d.Reviews))

		adminGroup.GET("/testimonials", testimonialControllers.GetAllTestimonials(d.DB))
		adminGroup.PATCH("/testimonials/:id/active", testimonialControllers.SetTestimonialActive(d.DB))
		adminGroup.DELETE("/testimonials/:id", testimonialControllers.DeleteTestimonial(d.DB))

		// ─────────── Storefront Content ───────────
		bannerMgmt := adminGroup.Group("/banners")
		{
			bannerMgmt.GET("", adminController.GetAllBanners(d.DB))
			bannerMgmt.POST("", adminController.UploadBanner(d.DB, d.Store))
			bannerMgmt.PUT("/:id", adminController.UpdateBanner(d.DB, d.Store))
			bannerMgmt.DELETE("/:id", adminController.DeleteBanner(d.DB, d.Store))
		}
		comingSoon := adminGroup.Group("/coming-soon")
		{
			comingSoon.GET("", adminController.GetAllComingSoon(d.DB))
			comingSoon.POST("", adminController.CreateComingSoon(d.DB, d.Store))
			comingSoon.PUT("/:id", adminController.UpdateComingSoon(d.DB, d.Store))
			comingSoon.DELETE("/:id", adminController.DeleteComingSoon(d.DB, d.Store))
		}
	}
}
