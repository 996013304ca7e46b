package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/billsync/backend/internal/domain/shared"
)

// RedisSyncLockStore implements SyncLockStore using Redis.
// This is suitable for distributed deployments where multiple instances
// may try to sync the same request concurrently.
type RedisSyncLockStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisSyncLockStore creates a new Redis-based sync lock store
func NewRedisSyncLockStore(cfg RedisConfig) (*RedisSyncLockStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisSyncLockStore{
		client:    client,
		keyPrefix: "billsync:lock:",
	}, nil
}

// NewRedisSyncLockStoreWithClient creates a store with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisSyncLockStoreWithClient(client *redis.Client, keyPrefix string) *RedisSyncLockStore {
	if keyPrefix == "" {
		keyPrefix = "billsync:lock:"
	}
	return &RedisSyncLockStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire takes the lock with a TTL using SETNX, so acquisition is atomic
// across instances. Returns false if another holder owns the lock.
func (s *RedisSyncLockStore) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	result, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire sync lock: %w", err)
	}
	return result, nil
}

// Release drops the lock
func (s *RedisSyncLockStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release sync lock: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (s *RedisSyncLockStore) Close() error {
	return s.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (s *RedisSyncLockStore) GetClient() *redis.Client {
	return s.client
}

// Ensure RedisSyncLockStore implements SyncLockStore
var _ shared.SyncLockStore = (*RedisSyncLockStore)(nil)
