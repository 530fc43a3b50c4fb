package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/storefront-api/auth"
	"github.com/junaidrashid-git/storefront-api/models"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func token(t *testing.T, userID string, role models.Role) string {
	t.Helper()
	tok, err := auth.IssueToken(secret, userID, role, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func serve(r *gin.Engine, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateToken(t *testing.T) {
	r := gin.New()
	r.GET("/", ValidateToken(secret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c), "role": Role(c)})
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, map[string]string{"Authorization": "Bearer junk"}).Code)

	w := serve(r, map[string]string{"Authorization": token(t, "u1", models.RoleCustomer)})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"u1","role":"customer"}`, w.Body.String())
}

func TestRequireAdmin(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireAdmin(secret, "key-123"), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, map[string]string{"Authorization": token(t, "u1", models.RoleCustomer)}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, map[string]string{"X-API-KEY": "wrong"}).Code)

	w := serve(r, map[string]string{"Authorization": token(t, "boss", models.RoleAdmin)})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "boss", w.Body.String())

	w = serve(r, map[string]string{"X-API-KEY": "key-123"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, APIKeyUserID, w.Body.String())
}

func TestRequireAdminIgnoresEmptyAPIKey(t *testing.T) {
	r := gin.New()
	r.GET("/", RequireAdmin(secret, ""), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, map[string]string{"X-API-KEY": ""}).Code)
}

func TestTokenBucketRefills(t *testing.T) {
	tb := NewTokenBucket(2, 1, time.Second)
	start := tb.lastRefill

	assert.True(t, tb.allowAt(start))
	assert.True(t, tb.allowAt(start))
	assert.False(t, tb.allowAt(start.Add(500*time.Millisecond)))
	assert.True(t, tb.allowAt(start.Add(1500*time.Millisecond)))
	assert.False(t, tb.allowAt(start.Add(1600*time.Millisecond)))
	assert.True(t, tb.allowAt(start.Add(10*time.Second)))
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.GET("/", ValidateToken(secret), RateLimit(NewMemoryLimiter(2, time.Hour)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	alice := map[string]string{"Authorization": token(t, "alice", models.RoleCustomer)}
	bob := map[string]string{"Authorization": token(t, "bob", models.RoleCustomer)}

	assert.Equal(t, http.StatusOK, serve(r, alice).Code)
	assert.Equal(t, http.StatusOK, serve(r, alice).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(r, alice).Code)
	assert.Equal(t, http.StatusOK, serve(r, bob).Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(failingLimiter{}), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, nil).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.GET("/", RequestID(), func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestID)) })

	w := serve(r, map[string]string{RequestIDHeader: "abc"})
	assert.Equal(t, "abc", w.Body.String())
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))

	w = serve(r, nil)
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
}
