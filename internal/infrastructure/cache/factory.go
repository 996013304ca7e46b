package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/billsync/backend/internal/domain/shared"
	"github.com/billsync/backend/internal/infrastructure/config"
)

// SyncLockStoreFactory creates sync lock stores based on configuration
type SyncLockStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SyncLockStoreFactoryOption is a functional option for configuring the factory
type SyncLockStoreFactoryOption func(*SyncLockStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SyncLockStoreFactoryOption {
	return func(f *SyncLockStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) SyncLockStoreFactoryOption {
	return func(f *SyncLockStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSyncLockStoreFactory creates a new factory
func NewSyncLockStoreFactory(cfg config.RedisConfig, opts ...SyncLockStoreFactoryOption) *SyncLockStoreFactory {
	f := &SyncLockStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateStore creates a sync lock store. Redis is preferred when enabled,
// with an in-memory fallback for single-instance deployments.
// WARNING: in-memory locks do not protect against concurrent syncs from
// other process instances.
func (f *SyncLockStoreFactory) CreateStore() (shared.SyncLockStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory sync lock store")
		return NewInMemorySyncLockStore(), nil
	}

	store, err := NewRedisSyncLockStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("failed to create Redis sync lock store: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory sync lock store",
			zap.Error(err),
		)
		return NewInMemorySyncLockStore(), nil
	}

	f.logger.Info("Using Redis sync lock store",
		zap.String("host", f.redisConfig.Host),
		zap.Int("port", f.redisConfig.Port),
	)
	return store, nil
}
