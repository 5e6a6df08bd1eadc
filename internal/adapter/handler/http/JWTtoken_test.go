package http

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sm8ta/webike_rental_storefront/internal/adapter/logger"
	"github.com/sm8ta/webike_rental_storefront/internal/core/domain"
)

func TestVisitorTokenRoundTrip(t *testing.T) {
	svc := NewJWTTokenService("secret", time.Hour, logger.NewNop())
	id := uuid.New()

	token, err := svc.IssueToken(&domain.VisitorClaims{VisitorID: id, UserID: "u1", Role: domain.Admin})
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.VisitorID)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, domain.Admin, claims.Role)
}

func TestVisitorTokenAnonymous(t *testing.T) {
	svc := NewJWTTokenService("secret", time.Hour, logger.NewNop())
	token, err := svc.IssueToken(&domain.VisitorClaims{VisitorID: uuid.New()})
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Empty(t, claims.UserID)
	assert.Empty(t, claims.Role)
}

func TestVisitorTokenRejects(t *testing.T) {
	svc := NewJWTTokenService("secret", time.Hour, logger.NewNop())
	other := NewJWTTokenService("other", time.Hour, logger.NewNop())

	forged, err := other.IssueToken(&domain.VisitorClaims{VisitorID: uuid.New()})
	require.NoError(t, err)
	_, err = svc.VerifyToken(forged)
	assert.Error(t, err)

	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := svc.IssueToken(&domain.VisitorClaims{VisitorID: uuid.New()})
	require.NoError(t, err)
	svc.now = time.Now
	_, err = svc.VerifyToken(expired)
	assert.Error(t, err)

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   uuid.NewString(),
		"role": "root",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.VerifyToken(badRole)
	assert.Error(t, err)

	_, err = svc.VerifyToken("not-a-token")
	assert.Error(t, err)
}
