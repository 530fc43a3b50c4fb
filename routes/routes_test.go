package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/database"
	"github.com/junaidrashid-git/storefront-api/events"
	"github.com/junaidrashid-git/storefront-api/middleware"
	"github.com/junaidrashid-git/storefront-api/models"
	"github.com/junaidrashid-git/storefront-api/services"
	"github.com/junaidrashid-git/storefront-api/storage"
)

const adminKey = "admin-key"

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := database.OpenTest(t)
	cfg := &config.Config{
		Server:  config.ServerConfig{Port: "0", Env: "test", MaxUploadBytes: 8 << 20},
		JWT:     config.JWTConfig{Secret: "route-secret", TTL: time.Hour},
		Admin:   config.AdminConfig{APIKey: adminKey},
		Storage: config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), PublicBaseURL: "/uploads"},
	}
	hub := events.NewHub()
	return &testServer{
		db: db,
		router: NewRouter(Deps{
			DB:      db,
			Config:  cfg,
			Logger:  zap.NewNop(),
			Cart:    services.NewCartService(db, services.DefaultPricingPolicy()),
			Reviews: services.NewReviewService(db, hub),
			Store:   storage.NewLocal(cfg.Storage.LocalDir, cfg.Storage.PublicBaseURL),
			Events:  hub,
			Hub:     hub,
			Limiter: middleware.NewMemoryLimiter(1000, time.Minute),
		}),
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// guest signs up a guest and returns its id and bearer header.
func (s *testServer) guest(t *testing.T) (string, map[string]string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/auth/guest", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		GuestID string `json:"guestId"`
		Token   string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.GuestID, map[string]string{"Authorization": "Bearer " + resp.Token}
}

func (s *testServer) product(t *testing.T, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: "Canvas Tote", Price: decimal.RequireFromString(price), Stock: stock, IsActive: true}
	require.NoError(t, s.db.Create(p).Error)
	return p
}

func TestHealthAndRequestID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", nil, map[string]string{middleware.RequestIDHeader: "req-1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-1", w.Header().Get(middleware.RequestIDHeader))
}

func TestCartRequiresToken(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/cart", nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/cart", gin.H{"productId": 1}, nil).Code)
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t)
	_, auth := s.guest(t)
	p := s.product(t, "15.00", 5)

	w := s.do(t, http.MethodPost, "/cart", gin.H{"productId": p.ID, "quantity": 2}, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var line models.CartLine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &line))
	assert.Equal(t, 2, line.Quantity)

	w = s.do(t, http.MethodPost, "/cart", gin.H{"productId": p.ID}, auth)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &line))
	assert.Equal(t, 3, line.Quantity)

	w = s.do(t, http.MethodPost, "/cart", gin.H{"productId": p.ID, "quantity": 3}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/cart/summary", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var summary services.CartSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 3, summary.ItemCount)
	assert.True(t, summary.Subtotal.Equal(decimal.RequireFromString("45")))
	assert.True(t, summary.Shipping.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, summary.Tax.Equal(decimal.RequireFromString("3.60")))
	assert.True(t, summary.Total.Equal(decimal.RequireFromString("58.59")))

	path := fmt.Sprintf("/cart/%d", line.ID)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, path, gin.H{"quantity": 0}, auth).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPut, path, gin.H{"quantity": 6}, auth).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPut, path, gin.H{"quantity": 5}, auth).Code)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, nil, auth).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, nil, auth).Code)
}

func TestAddToCartRejectsBadReferences(t *testing.T) {
	s := newTestServer(t)
	_, auth := s.guest(t)
	p := s.product(t, "10.00", 5)

	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/cart", gin.H{}, auth).Code)
	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodPost, "/cart", gin.H{"productId": p.ID, "flashSaleId": 1}, auth).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/cart", gin.H{"productId": p.ID + 100}, auth).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/cart", gin.H{"flashSaleId": 99}, auth).Code)
	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodPost, "/cart", gin.H{"productId": p.ID, "quantity": 0}, auth).Code)
	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodPost, "/cart", gin.H{"productId": p.ID, "quantity": 1000}, auth).Code)
}

func TestCartIsPrivateToItsOwner(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.guest(t)
	_, bob := s.guest(t)
	p := s.product(t, "10.00", 5)

	w := s.do(t, http.MethodPost, "/cart", gin.H{"productId": p.ID}, alice)
	require.Equal(t, http.StatusCreated, w.Code)
	var line models.CartLine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &line))

	path := fmt.Sprintf("/cart/%d", line.ID)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, path, gin.H{"quantity": 2}, bob).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, nil, bob).Code)

	w = s.do(t, http.MethodDelete, "/cart", nil, bob)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Cart cleared","removed":0}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/cart", nil, alice)
	var lines []models.CartLine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lines))
	assert.Len(t, lines, 1)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	guestID, auth := s.guest(t)
	p := s.product(t, "30.00", 5)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/cart", gin.H{"productId": p.ID, "quantity": 2}, auth).Code)

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, "/admin/stats", nil, auth).Code)

	key := map[string]string{"X-API-KEY": adminKey}
	w := s.do(t, http.MethodGet, "/admin/user-cart/"+guestID, nil, key)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		UserID  string               `json:"userId"`
		Summary services.CartSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, guestID, resp.UserID)
	assert.True(t, resp.Summary.Shipping.IsZero())
	assert.True(t, resp.Summary.Total.Equal(decimal.RequireFromString("64.80")))

	w = s.do(t, http.MethodPatch, fmt.Sprintf("/admin/products/%d/active", p.ID), gin.H{"isActive": false}, key)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, fmt.Sprintf("/products/%d", p.ID), nil, nil).Code)
}

func TestReviewUpdatesProductRating(t *testing.T) {
	s := newTestServer(t)
	_, alice := s.guest(t)
	_, bob := s.guest(t)
	p := s.product(t, "20.00", 5)
	path := fmt.Sprintf("/products/%d/reviews", p.ID)

	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, path, gin.H{"rating": 5, "title": "Great"}, alice).Code)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, path, gin.H{"rating": 4}, alice).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, path, gin.H{"rating": 2}, bob).Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, path, gin.H{"rating": 6}, bob).Code)

	var product models.Product
	require.NoError(t, s.db.First(&product, p.ID).Error)
	assert.True(t, product.AverageRating.Equal(decimal.RequireFromString("3.5")))
	assert.Equal(t, 2, product.TotalReviews)

	w := s.do(t, http.MethodGet, path, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var reviews []models.Review
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reviews))
	assert.Len(t, reviews, 2)
}

func TestWishlistFlow(t *testing.T) {
	s := newTestServer(t)
	_, auth := s.guest(t)
	p := s.product(t, "12.00", 3)

	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/wishlist", gin.H{"productId": p.ID}, auth).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/wishlist", gin.H{"productId": p.ID}, auth).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPost, "/wishlist", gin.H{"productId": p.ID + 1}, auth).Code)

	w := s.do(t, http.MethodGet, "/wishlist", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.WishlistItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Product)
	assert.Equal(t, p.Name, items[0].Product.Name)

	path := fmt.Sprintf("/wishlist/%d", p.ID)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodDelete, path, nil, auth).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, path, nil, auth).Code)
}

func TestTestimonialModeration(t *testing.T) {
	s := newTestServer(t)
	_, auth := s.guest(t)
	key := map[string]string{"X-API-KEY": adminKey}

	assert.Equal(t, http.StatusBadRequest,
		s.do(t, http.MethodPost, "/testimonials", gin.H{"name": "Sam", "content": "Nice", "rating": 9}, auth).Code)

	w := s.do(t, http.MethodPost, "/testimonials", gin.H{"name": "Sam", "content": "Fast delivery", "rating": 5}, auth)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data models.Testimonial `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.False(t, created.Data.IsActive)

	public := func() []models.Testimonial {
		w := s.do(t, http.MethodGet, "/testimonials", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []models.Testimonial
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		return list
	}
	assert.Empty(t, public())

	path := fmt.Sprintf("/admin/testimonials/%d/active", created.Data.ID)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, path, gin.H{"isActive": true}, key).Code)
	list := public()
	require.Len(t, list, 1)
	assert.Equal(t, "Fast delivery", list[0].Content)

	assert.Equal(t, http.StatusOK,
		s.do(t, http.MethodDelete, fmt.Sprintf("/admin/testimonials/%d", created.Data.ID), nil, key).Code)
	assert.Empty(t, public())
}

func (s *testServer) form(t *testing.T, method, path string, fields map[string]string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestFlashSaleToCart(t *testing.T) {
	s := newTestServer(t)
	_, auth := s.guest(t)
	key := map[string]string{"X-API-KEY": adminKey}
	now := time.Now().UTC()

	w := s.form(t, http.MethodPost, "/admin/flash-sales", map[string]string{
		"title":      "Midnight Deal",
		"start_date": now.Add(2 * time.Hour).Format(time.RFC3339),
		"end_date":   now.Add(time.Hour).Format(time.RFC3339),
	}, key)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.form(t, http.MethodPost, "/admin/flash-sales", map[string]string{
		"title":         "Midnight Deal",
		"current_price": "20",
		"old_price":     "40",
		"start_date":    now.Add(-time.Hour).Format(time.RFC3339),
		"end_date":      now.Add(time.Hour).Format(time.RFC3339),
	}, key)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var sale models.FlashSale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, 50, sale.DiscountPercentage)

	w = s.do(t, http.MethodGet, "/flash-sales", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var live []models.FlashSale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &live))
	require.Len(t, live, 1)

	require.Equal(t, http.StatusCreated,
		s.do(t, http.MethodPost, "/cart", gin.H{"flashSaleId": sale.ID, "quantity": 2}, auth).Code)

	w = s.do(t, http.MethodGet, "/cart/summary", nil, auth)
	require.Equal(t, http.StatusOK, w.Code)
	var summary services.CartSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.True(t, summary.Subtotal.Equal(decimal.NewFromInt(40)))
	assert.True(t, summary.Savings.Equal(decimal.NewFromInt(40)))

	w = s.form(t, http.MethodPut, fmt.Sprintf("/admin/flash-sales/%d", sale.ID), map[string]string{"is_active": "false"}, key)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusNotFound,
		s.do(t, http.MethodPost, "/cart", gin.H{"flashSaleId": sale.ID}, auth).Code)

	require.Equal(t, http.StatusOK,
		s.do(t, http.MethodDelete, fmt.Sprintf("/admin/flash-sales/%d", sale.ID), nil, key).Code)
	w = s.do(t, http.MethodGet, "/cart", nil, auth)
	var lines []models.CartLine
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lines))
	assert.Empty(t, lines)
}
