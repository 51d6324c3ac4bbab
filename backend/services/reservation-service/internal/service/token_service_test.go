package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecocharge/backend/services/reservation-service/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", 30*time.Minute)
	svc.now = fixedClock()

	token, err := svc.GenerateToken(models.User{ID: "u-admin", Role: models.RoleAdmin})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-admin", claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
	assert.Equal(t, testNow.Add(30*time.Minute), claims.ExpiresAt.Time.UTC())
}

func TestTokenExpiredAndForeign(t *testing.T) {
	svc := NewTokenService("secret", time.Minute)
	svc.now = fixedClock()
	token, err := svc.GenerateToken(models.User{ID: "u-driver", Role: models.RoleUser})
	require.NoError(t, err)

	svc.now = func() time.Time { return testNow.Add(2 * time.Minute) }
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	other := NewTokenService("other-secret", time.Minute)
	other.now = fixedClock()
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	_, err = svc.GenerateToken(models.User{})
	assert.Error(t, err)
}
