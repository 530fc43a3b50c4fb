package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaidrashid-git/storefront-api/models"
)

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken("secret", "u1", models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestParseTokenRejects(t *testing.T) {
	valid, err := IssueToken("secret", "u1", models.RoleCustomer, time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken("secret", "u1", models.RoleCustomer, -time.Minute)
	require.NoError(t, err)
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "u1"}).SignedString([]byte("secret"))
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"user_id": "u1",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret": valid,
		"expired":      expired,
		"no expiry":    noExpiry,
		"alg none":     none,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			secret := "secret"
			if name == "wrong secret" {
				secret = "other"
			}
			_, err := ParseToken(secret, token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
