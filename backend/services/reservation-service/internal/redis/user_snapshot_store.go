package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"ecocharge/backend/services/reservation-service/internal/models"
)

const defaultKeyPrefix = "reservation:"

// UserSnapshotStore keeps the latest full user record (bookings, reviews, loyalty) in redis
// so that a restart does not lose what was committed in memory.
type UserSnapshotStore struct {
	client *redis.Client
	prefix string
}

// NewUserSnapshotStore returns redis-backed store.
func NewUserSnapshotStore(client *redis.Client, prefix string) *UserSnapshotStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &UserSnapshotStore{client: client, prefix: prefix}
}

func (s *UserSnapshotStore) key(userID string) string {
	return fmt.Sprintf("%susers:%s", s.prefix, userID)
}

func (s *UserSnapshotStore) indexKey() string {
	return s.prefix + "users"
}

// SaveUser writes the snapshot and registers its id in the index set.
func (s *UserSnapshotStore) SaveUser(ctx context.Context, user models.User) error {
	data, err := encodeUser(user)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(user.ID), data, 0)
		pipe.SAdd(ctx, s.indexKey(), user.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: save user %s: %w", user.ID, err)
	}
	return nil
}

// LoadUsers returns every stored snapshot ordered by id. Index entries whose record has
// disappeared are skipped.
func (s *UserSnapshotStore) LoadUsers(ctx context.Context) ([]models.User, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list users: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Strings(ids)

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, s.key(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: load users: %w", err)
	}

	users := make([]models.User, 0, len(values))
	for i, raw := range values {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		user, err := decodeUser([]byte(str))
		if err != nil {
			return nil, fmt.Errorf("redis: decode user %s: %w", ids[i], err)
		}
		users = append(users, user)
	}
	return users, nil
}

func encodeUser(user models.User) ([]byte, error) {
	return json.Marshal(user)
}

func decodeUser(data []byte) (models.User, error) {
	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
