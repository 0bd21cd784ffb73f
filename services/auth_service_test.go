package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ipotrack/ipo-backend/models"
	"github.com/stretchr/testify/require"
)

func newTestAuthService() *AuthService {
	return NewAuthService(nil, "test-secret", time.Hour, 24*time.Hour)
}

func testUser() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "admin",
		IsStaff:  true,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService()
	user := testUser()

	pair, err := svc.issueTokens(user)
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	claims, err := svc.Verify(pair.Access)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), claims.UserID)
	require.Equal(t, "admin", claims.Username)
	require.True(t, claims.IsStaff)
	require.Equal(t, TokenTypeAccess, claims.TokenType)
	require.Equal(t, "ipo-backend", claims.Issuer)

	refreshClaims, err := svc.Verify(pair.Refresh)
	require.NoError(t, err)
	require.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	pair, err := newTestAuthService().issueTokens(testUser())
	require.NoError(t, err)

	other := NewAuthService(nil, "a-different-secret", time.Hour, 24*time.Hour)
	_, err = other.Verify(pair.Access)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", -time.Hour, 24*time.Hour)

	token, err := svc.sign(testUser(), TokenTypeAccess, -time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := newTestAuthService().Verify("not.a.token")
	require.Error(t, err)
}
