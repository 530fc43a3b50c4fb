package models

import "errors"

// Domain errors shared by repositories, services and controllers.
var (
	ErrInvalidReference     = errors.New("exactly one of productId or flashSaleId must be provided")
	ErrInvalidQuantity      = errors.New("quantity must be between 1 and 999")
	ErrProductNotFound      = errors.New("product not found")
	ErrFlashSaleUnavailable = errors.New("flash sale not found or expired")
	ErrFlashSaleNotFound    = errors.New("flash sale not found")
	ErrFlashSaleExpired     = errors.New("flash sale has expired")
	ErrCartLineNotFound     = errors.New("cart item not found")
	ErrInsufficientStock    = errors.New("insufficient stock")

	ErrCategoryNotFound    = errors.New("category not found")
	ErrReviewNotFound      = errors.New("review not found")
	ErrDuplicateReview     = errors.New("you have already reviewed this product")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrInvalidSaleWindow   = errors.New("flash sale needs a start date before its end date")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRole         = errors.New("invalid role")
	ErrForbidden           = errors.New("forbidden")
	ErrWishlistItemMissing = errors.New("wishlist item not found")
	ErrNotFound            = errors.New("record not found")
)
