package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/repository"
)

// CartService owns the cart lines of every user. It validates references against the live
// catalog and stock, merges repeat adds into one line per catalog entity, and publishes nothing.
type CartService struct {
	db      *gorm.DB
	pricing PricingPolicy
	now     func() time.Time
}

func NewCartService(db *gorm.DB, pricing PricingPolicy) *CartService {
	return &CartService{db: db, pricing: pricing, now: time.Now}
}

// WithClock replaces the clock used for flash-sale window checks.
func (s *CartService) WithClock(now func() time.Time) *CartService {
	s.now = now
	return s
}

// AddLine adds quantity units of ref to the user's cart. When the user already has a line for
// ref its quantity grows instead; created reports whether a new line was inserted.
func (s *CartService) AddLine(ctx context.Context, userID string, ref models.LineRef, quantity int) (line *models.CartLine, created bool, err error) {
	if ref.IsZero() {
		return nil, false, models.ErrInvalidReference
	}
	if !models.ValidQuantity(quantity) {
		return nil, false, models.ErrInvalidQuantity
	}
	now := s.now()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalog := repository.NewCatalogRepository(tx)
		carts := repository.NewCartRepository(tx)

		var product *models.Product
		switch ref.Kind() {
		case models.ItemKindProduct:
			p, err := catalog.ReserveStock(ctx, ref.ID(), quantity)
			if err != nil {
				return err
			}
			product = p
		case models.ItemKindFlashSale:
			if _, err := catalog.FindActiveFlashSale(ctx, ref.ID(), now); err != nil {
				return err
			}
		}

		existing, err := carts.FindByRef(ctx, userID, ref)
		switch {
		case errors.Is(err, models.ErrCartLineNotFound):
			fresh := &models.CartLine{UserID: userID, Quantity: quantity}
			fresh.SetRef(ref)
			if err := carts.Create(ctx, fresh); err != nil {
				return err
			}
			existing, created = fresh, true
		case err != nil:
			return err
		default:
			total := existing.Quantity + quantity
			if !models.ValidQuantity(total) {
				return models.ErrInvalidQuantity
			}
			if product != nil && total > product.Stock {
				return models.ErrInsufficientStock
			}
			if err := carts.UpdateQuantity(ctx, existing, total); err != nil {
				return err
			}
		}

		line, err = carts.Get(ctx, userID, existing.ID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return line, created, nil
}

// UpdateLineQuantity sets the quantity of one of the user's lines after re-checking the line's
// entity: stock for products, the sale window for flash sales.
func (s *CartService) UpdateLineQuantity(ctx context.Context, userID string, lineID uint, quantity int) (*models.CartLine, error) {
	if !models.ValidQuantity(quantity) {
		return nil, models.ErrInvalidQuantity
	}
	now := s.now()

	var line *models.CartLine
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		catalog := repository.NewCatalogRepository(tx)
		carts := repository.NewCartRepository(tx)

		var err error
		line, err = carts.Get(ctx, userID, lineID)
		if err != nil {
			return err
		}

		switch line.ItemKind {
		case models.ItemKindFlashSale:
			if line.FlashSale == nil {
				return models.ErrFlashSaleNotFound
			}
			if !line.FlashSale.WithinWindow(now) {
				return models.ErrFlashSaleExpired
			}
		default:
			if line.ProductID == nil || line.Product == nil {
				return models.ErrProductNotFound
			}
			product, err := catalog.LockProduct(ctx, *line.ProductID)
			if err != nil {
				return err
			}
			if quantity > product.Stock {
				return models.ErrInsufficientStock
			}
			line.Product = product
		}

		return carts.UpdateQuantity(ctx, line, quantity)
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// RemoveLine deletes one line the user owns.
func (s *CartService) RemoveLine(ctx context.Context, userID string, lineID uint) error {
	return repository.NewCartRepository(s.db).Delete(ctx, userID, lineID)
}

// ClearCart deletes every line the user owns. Clearing an empty cart is not an error.
func (s *CartService) ClearCart(ctx context.Context, userID string) (int64, error) {
	return repository.NewCartRepository(s.db).Clear(ctx, userID)
}

// ListLines returns the user's lines with their entities loaded. Lines whose entities were both
// deleted are left out.
func (s *CartService) ListLines(ctx context.Context, userID string) ([]models.CartLine, error) {
	return repository.NewCartRepository(s.db).List(ctx, userID)
}

// Summary lists the user's lines and prices them.
func (s *CartService) Summary(ctx context.Context, userID string) (CartSummary, error) {
	lines, err := s.ListLines(ctx, userID)
	if err != nil {
		return CartSummary{}, err
	}
	return s.pricing.Summarize(lines), nil
}
