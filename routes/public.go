package routes

import (
	"github.com/gin-gonic/gin"

	adminController "github.com/junaidrashid-git/storefront-api/controllers/admin"
	flashSaleControllers "github.com/junaidrashid-git/storefront-api/controllers/flashsale"
	productcontroller "github.com/junaidrashid-git/storefront-api/controllers/product"
	reviewControllers "github.com/junaidrashid-git/storefront-api/controllers/review"
	testimonialControllers "github.com/junaidrashid-git/storefront-api/controllers/testimonial"
)

// SetupPublicRoutes registers the storefront's read-only endpoints. No auth.
func SetupPublicRoutes(r *gin.Engine, d Deps) {
	// ──────────────── Catalog ────────────────
	r.GET("/products", productcontroller.GetProducts(d.DB))
	r.GET("/products/:id", productcontroller.GetProductByID(d.DB))
	r.GET("/products/:id/reviews", reviewControllers.GetProductReviews(d.Reviews))
	r.GET("/categories", productcontroller.GetAllCategories(d.DB))
	r.GET("/categories/:id", productcontroller.GetCategoryByID(d.DB))

	// ──────────────── Flash Sales ────────────────
	r.GET("/flash-sales", flashSaleControllers.GetLiveFlashSales(d.DB))
	r.GET("/flash-sales/:id", flashSaleControllers.GetFlashSale(d.DB))

	// ──────────────── Content ────────────────
	r.GET("/banners", adminController.GetBanners(d.DB))
	r.GET("/coming-soon", adminController.GetComingSoon(d.DB))
	r.GET("/testimonials", testimonialControllers.GetTestimonials(d.DB))
}
