package services

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/storefront-api/database"
	"github.com/junaidrashid-git/storefront-api/models"
)

func newCartService(t *testing.T) (*CartService, func(time.Time)) {
	db := database.OpenTest(t)
	now := testNow
	svc := NewCartService(db, DefaultPricingPolicy()).WithClock(func() time.Time { return now })
	return svc, func(t time.Time) { now = t }
}

func TestAddLineCreatesThenMerges(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, svc.db, "20.00", 10, true)

	line, created, err := svc.AddLine(ctx, "u1", models.ProductRef(p.ID), 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, models.ItemKindProduct, line.ItemKind)
	require.NotNil(t, line.Product)
	assert.Equal(t, p.ID, line.Product.ID)

	again, created, err := svc.AddLine(ctx, "u1", models.ProductRef(p.ID), 3)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, line.ID, again.ID)
	assert.Equal(t, 5, again.Quantity)

	lines, err := svc.ListLines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestAddLineRejectsInvalidInput(t *testing.T) {
	svc, _ := newCartService(t)
	p := seedProduct(t, svc.db, "20.00", 10, true)

	_, _, err := svc.AddLine(context.Background(), "u1", models.LineRef{}, 1)
	assert.ErrorIs(t, err, models.ErrInvalidReference)

	_, _, err = svc.AddLine(context.Background(), "u1", models.ProductRef(p.ID), 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
}

func TestAddLineCapsFlashSaleQuantity(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()
	sale := seedFlashSale(t, svc.db, "10.00", "", testNow.Add(-time.Hour), testNow.Add(time.Hour), true)
	ref := models.FlashSaleRef(sale.ID)

	_, _, err := svc.AddLine(ctx, "u1", ref, math.MaxInt)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
	_, _, err = svc.AddLine(ctx, "u1", ref, models.MaxLineQuantity+1)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	line, _, err := svc.AddLine(ctx, "u1", ref, models.MaxLineQuantity)
	require.NoError(t, err)

	_, _, err = svc.AddLine(ctx, "u1", ref, 1)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
	_, err = svc.UpdateLineQuantity(ctx, "u1", line.ID, math.MaxInt)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	lines, err := svc.ListLines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, models.MaxLineQuantity, lines[0].Quantity)

	summary := DefaultPricingPolicy().Summarize(lines)
	assert.True(t, summary.Subtotal.Equal(decimal.NewFromInt(9990)))
	assert.False(t, summary.Total.IsNegative())
}

func TestAddLineProductAvailability(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()
	inactive := seedProduct(t, svc.db, "5.00", 10, false)
	deleted := seedProduct(t, svc.db, "5.00", 10, true)
	require.NoError(t, svc.db.Delete(deleted).Error)

	_, _, err := svc.AddLine(ctx, "u1", models.ProductRef(9999), 1)
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	_, _, err = svc.AddLine(ctx, "u1", models.ProductRef(inactive.ID), 1)
	assert.ErrorIs(t, err, models.ErrProductNotFound)

	_, _, err = svc.AddLine(ctx, "u1", models.ProductRef(deleted.ID), 1)
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestAddLineEnforcesStockAcrossMerges(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, svc.db, "20.00", 5, true)

	_, _, err := svc.AddLine(ctx, "u1", models.ProductRef(p.ID), 6)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	_, _, err = svc.AddLine(ctx, "u1", models.ProductRef(p.ID), 3)
	require.NoError(t, err)

	_, _, err = svc.AddLine(ctx, "u1", models.ProductRef(p.ID), 3)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	lines, err := svc.ListLines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)

	// Stock is per user cart, not reserved across users.
	_, _, err = svc.AddLine(ctx, "u2", models.ProductRef(p.ID), 5)
	assert.NoError(t, err)
}

func TestAddLineFlashSaleWindow(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()

	live := seedFlashSale(t, svc.db, "10.00", "25.00", testNow.Add(-time.Hour), testNow.Add(time.Hour), true)
	endsNow := seedFlashSale(t, svc.db, "10.00", "", testNow.Add(-time.Hour), testNow, true)
	startsNow := seedFlashSale(t, svc.db, "10.00", "", testNow, testNow.Add(time.Hour), true)
	expired := seedFlashSale(t, svc.db, "10.00", "", testNow.Add(-2*time.Hour), testNow.Add(-time.Hour), true)
	upcoming := seedFlashSale(t, svc.db, "10.00", "", testNow.Add(time.Hour), testNow.Add(2*time.Hour), true)
	inactive := seedFlashSale(t, svc.db, "10.00", "", testNow.Add(-time.Hour), testNow.Add(time.Hour), false)

	for _, sale := range []uint{live.ID, endsNow.ID, startsNow.ID} {
		line, created, err := svc.AddLine(ctx, "u1", models.FlashSaleRef(sale), 1)
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, models.ItemKindFlashSale, line.ItemKind)
		assert.Nil(t, line.ProductID)
		require.NotNil(t, line.FlashSale)
	}

	for _, sale := range []uint{expired.ID, upcoming.ID, inactive.ID, 9999} {
		_, _, err := svc.AddLine(ctx, "u1", models.FlashSaleRef(sale), 1)
		assert.ErrorIs(t, err, models.ErrFlashSaleUnavailable)
	}

	// Flash sales have no stock ceiling.
	line, created, err := svc.AddLine(ctx, "u1", models.FlashSaleRef(live.ID), 500)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 501, line.Quantity)
}

func TestProductAndFlashSaleLinesStaySeparate(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, svc.db, "20.00", 10, true)
	sale := seedFlashSale(t, svc.db, "10.00", "", testNow.Add(-time.Hour), testNow.Add(time.Hour), true)
	require.Equal(t, p.ID, sale.ID)

	_, _, err := svc.AddLine(ctx, "u1", models.ProductRef(p.ID), 1)
	require.NoError(t, err)
	_, created, err := svc.AddLine(ctx, "u1", models.FlashSaleRef(sale.ID), 1)
	require.NoError(t, err)
	assert.True(t, created)

	lines, err := svc.ListLines(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestUpdateLineQuantity(t *testing.T) {
	svc, setNow := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, svc.db, "20.00", 4, true)
	sale := seedFlashSale(t, svc.db, "10.00", "", testNow.Add(-time.Hour), testNow.Add(time.Hour), true)

	productLine, _, err := svc.AddLine(ctx, "u1", models.ProductRef(p.ID), 1)
	require.NoError(t, err)
	saleLine, _, err := svc.AddLine(ctx, "u1", models.FlashSaleRef(sale.ID), 1)
	require.NoError(t, err)

	updated, err := svc.UpdateLineQuantity(ctx, "u1", productLine.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	_, err = svc.UpdateLineQuantity(ctx, "u1", productLine.ID, 5)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	_, err = svc.UpdateLineQuantity(ctx, "u1", productLine.ID, 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = svc.UpdateLineQuantity(ctx, "u2", productLine.ID, 1)
	assert.ErrorIs(t, err, models.ErrCartLineNotFound)

	updated, err = svc.UpdateLineQuantity(ctx, "u1", saleLine.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	setNow(testNow.Add(2 * time.Hour))
	_, err = svc.UpdateLineQuantity(ctx, "u1", saleLine.ID, 2)
	assert.ErrorIs(t, err, models.ErrFlashSaleExpired)

	lines, err := svc.ListLines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Equal(t, 7, lines[1].Quantity)
}

func TestRemoveLineIsOwnerScoped(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()
	p := seedProduct(t, svc.db, "20.00", 10, true)

	line, _, err := svc.AddLine(ctx, "u1", models.ProductRef(p.ID), 1)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RemoveLine(ctx, "u2", line.ID), models.ErrCartLineNotFound)
	require.NoError(t, svc.RemoveLine(ctx, "u1", line.ID))
	assert.ErrorIs(t, svc.RemoveLine(ctx, "u1", line.ID), models.ErrCartLineNotFound)
}

func TestClearCartOnlyTouchesCaller(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()
	a := seedProduct(t, svc.db, "20.00", 10, true)
	b := seedProduct(t, svc.db, "30.00", 10, true)

	for _, user := range []string{"u1", "u2"} {
		for _, p := range []uint{a.ID, b.ID} {
			_, _, err := svc.AddLine(ctx, user, models.ProductRef(p), 1)
			require.NoError(t, err)
		}
	}

	removed, err := svc.ClearCart(ctx, "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	removed, err = svc.ClearCart(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, removed)

	mine, err := svc.ListLines(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	theirs, err := svc.ListLines(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, theirs, 2)
}

func TestListLinesHidesDeletedEntities(t *testing.T) {
	svc, _ := newCartService(t)
	ctx := context.Background()
	kept := seedProduct(t, svc.db, "20.00", 10, true)
	deactivated := seedProduct(t, svc.db, "20.00", 10, true)
	removed := seedProduct(t, svc.db, "20.00", 10, true)

	for _, p := range []uint{kept.ID, deactivated.ID, removed.ID} {
		_, _, err := svc.AddLine(ctx, "u1", models.ProductRef(p), 1)
		require.NoError(t, err)
	}

	require.NoError(t, svc.db.Model(deactivated).Update("is_active", false).Error)
	require.NoError(t, svc.db.Delete(removed).Error)

	lines, err := svc.ListLines(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, kept.ID, *lines[0].ProductID)
	assert.Equal(t, deactivated.ID, *lines[1].ProductID)
	assert.False(t, lines[1].Product.IsActive)
}

func TestAddLineConcurrentLastUnit(t *testing.T) {
	svc, _ := newCartService(t)
	p := seedProduct(t, svc.db, "20.00", 1, true)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		rejected  int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := svc.AddLine(context.Background(), "u1", models.ProductRef(p.ID), 1)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, models.ErrInsufficientStock):
				rejected++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, rejected)

	lines, err := svc.ListLines(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}
