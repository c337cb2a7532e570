package cache

import (
	"go.uber.org/zap"

	"github.com/quickdash/backend/internal/domain/shared"
	"github.com/quickdash/backend/internal/infrastructure/config"
)

// NewIdempotencyStore picks the store implementation from configuration.
// With Redis disabled, or unreachable, it falls back to the in-memory store,
// which is fine for a single replica but does not survive restarts.
func NewIdempotencyStore(cfg config.RedisConfig, log *zap.Logger) shared.IdempotencyStore {
	if !cfg.Enabled {
		log.Info("redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore()
	}

	store, err := NewRedisIdempotencyStore(cfg)
	if err != nil {
		log.Warn("redis unavailable, falling back to in-memory idempotency store",
			zap.String("addr", cfg.RedisAddr()),
			zap.Error(err),
		)
		return NewInMemoryIdempotencyStore()
	}

	log.Info("using redis idempotency store", zap.String("addr", cfg.RedisAddr()))
	return store
}
