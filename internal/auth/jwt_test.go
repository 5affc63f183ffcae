package auth

import (
	"testing"
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTService() *JWTService {
	return NewJWTService(&config.Config{
		JWT: config.JWTConfig{
			AccessSecret:  "test-access-secret",
			RefreshSecret: "test-refresh-secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 7 * 24 * time.Hour,
		},
	})
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := testJWTService()
	userID := uuid.New()

	token, jti, err := svc.GenerateAccessToken(userID, "business", "starter")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, jti)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Sub)
	assert.Equal(t, "business", claims.Role)
	assert.Equal(t, "starter", claims.Plan)
	assert.Equal(t, jti, claims.JTI)
	assert.Equal(t, "ulasis", claims.Issuer)
}

func TestValidateAccessToken_RejectsWrongSecret(t *testing.T) {
	svc := testJWTService()
	other := NewJWTService(&config.Config{
		JWT: config.JWTConfig{
			AccessSecret: "a-different-secret",
			AccessExpiry: 15 * time.Minute,
		},
	})

	token, _, err := svc.GenerateAccessToken(uuid.New(), "business", "free")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessToken_RejectsGarbage(t *testing.T) {
	svc := testJWTService()

	_, err := svc.ValidateAccessToken("not.a.jwt")
	assert.Error(t, err)
}

func TestGenerateRefreshToken_HashMatchesToken(t *testing.T) {
	svc := testJWTService()

	token, hash, expiresAt := svc.GenerateRefreshToken()
	assert.NotEmpty(t, token)
	assert.Equal(t, HashToken(token), hash)
	assert.True(t, expiresAt.After(time.Now().Add(6*24*time.Hour)))
}

func TestHashToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
	assert.Len(t, HashToken("abc"), 64)
}
