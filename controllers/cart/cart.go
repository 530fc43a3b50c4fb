package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/junaidrashid-git/storefront-api/controllers/common"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/services"
)

type AddToCartInput struct {
	ProductID   *uint `json:"productId"`
	FlashSaleID *uint `json:"flashSaleId"`
	Quantity    *int  `json:"quantity" binding:"omitempty,min=1,max=999"`
}

type UpdateQuantityInput struct {
	Quantity *int `json:"quantity" binding:"required,min=1,max=999"`
}

// GET /cart
func GetCart(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lines, err := cart.ListLines(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lines)
	}
}

// GET /cart/summary
func GetCartSummary(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := cart.Summary(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// POST /cart
func AddToCart(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		ref, err := models.NewLineRef(input.ProductID, input.FlashSaleID)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		quantity := 1
		if input.Quantity != nil {
			quantity = *input.Quantity
		}

		line, created, err := cart.AddLine(c.Request.Context(), middleware.UserID(c), ref, quantity)
		if err != nil {
			common.RespondError(c, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, line)
	}
}

// PUT /cart/:id
func UpdateCartItem(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineID, ok := common.ParseID(c, "id")
		if !ok {
			return
		}

		var input UpdateQuantityInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		line, err := cart.UpdateLineQuantity(c.Request.Context(), middleware.UserID(c), lineID, *input.Quantity)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, line)
	}
}

// DELETE /cart/:id
func RemoveCartItem(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		lineID, ok := common.ParseID(c, "id")
		if !ok {
			return
		}

		if err := cart.RemoveLine(c.Request.Context(), middleware.UserID(c), lineID); err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /cart
func ClearCart(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := cart.ClearCart(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared", "removed": removed})
	}
}

// GET /admin/user-cart/:user_id
func GetAdminUserCart(cart *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")
		summary, err := cart.Summary(c.Request.Context(), userID)
		if err != nil {
			common.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": userID, "summary": summary})
	}
}
