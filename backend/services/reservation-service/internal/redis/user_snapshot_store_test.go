package redisstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	libredis "ecocharge/backend/libs/redis"
	"ecocharge/backend/services/reservation-service/internal/models"
)

func TestKeysUsePrefix(t *testing.T) {
	s := NewUserSnapshotStore(nil, "")
	assert.Equal(t, "reservation:users:u-1", s.key("u-1"))
	assert.Equal(t, "reservation:users", s.indexKey())

	custom := NewUserSnapshotStore(nil, "test:")
	assert.Equal(t, "test:users:u-1", custom.key("u-1"))
}

func TestCodecKeepsHashAndHistory(t *testing.T) {
	user := models.User{
		ID:            "u-1",
		Email:         "a@example.com",
		PasswordHash:  "$2a$hash",
		LoyaltyPoints: 30,
		Bookings: []models.Booking{{
			ID:        "booking-1",
			TotalCost: 15,
			CreatedAt: time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC),
		}},
	}

	data, err := encodeUser(user)
	require.NoError(t, err)
	got, err := decodeUser(data)
	require.NoError(t, err)

	assert.Equal(t, "$2a$hash", got.PasswordHash)
	assert.Equal(t, 30, got.LoyaltyPoints)
	require.Len(t, got.Bookings, 1)
	assert.True(t, user.Bookings[0].CreatedAt.Equal(got.Bookings[0].CreatedAt))
}

// Runs against a live server when REDIS_TEST_ADDR is set.
func TestSnapshotStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	client, err := libredis.NewRedisClient(ctx, libredis.Options{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	prefix := "test-" + uuid.NewString() + ":"
	store := NewUserSnapshotStore(client, prefix)
	t.Cleanup(func() {
		client.Del(context.Background(), store.indexKey(), store.key("u-a"), store.key("u-b"))
	})

	require.NoError(t, store.SaveUser(ctx, models.User{ID: "u-b", LoyaltyPoints: 2}))
	require.NoError(t, store.SaveUser(ctx, models.User{ID: "u-a", LoyaltyPoints: 1}))
	require.NoError(t, store.SaveUser(ctx, models.User{ID: "u-a", LoyaltyPoints: 5}))

	users, err := store.LoadUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u-a", users[0].ID)
	assert.Equal(t, 5, users[0].LoyaltyPoints)
	assert.Equal(t, "u-b", users[1].ID)
}
