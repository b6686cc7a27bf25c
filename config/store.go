package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/a1095753788/AI-Stars-sub000/internal/database"
	"github.com/a1095753788/AI-Stars-sub000/llm/kv"
)

// CloseFunc 释放存储持有的连接
type CloseFunc func() error

func noopClose() error { return nil }

// OpenStore 按 cache.store 构建键值存储。
// 返回的 CloseFunc 总是非 nil。
func OpenStore(cfg *Config, logger *zap.Logger) (kv.Store, CloseFunc, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Cache.Store {
	case "", StoreMemory:
		return kv.NewMemoryStore(), noopClose, nil

	case StoreRedis:
		store, err := kv.NewRedisStore(kv.RedisConfig{
			Addr:                cfg.Redis.Addr,
			Password:            cfg.Redis.Password,
			DB:                  cfg.Redis.DB,
			PoolSize:            cfg.Redis.PoolSize,
			MinIdleConns:        cfg.Redis.MinIdleConns,
			HealthCheckInterval: cfg.Redis.HealthCheckInterval,
		}, logger)
		if err != nil {
			return nil, noopClose, fmt.Errorf("open redis store: %w", err)
		}
		return store, store.Close, nil

	case StoreSQL:
		pool := database.DefaultPoolConfig()
		if cfg.Database.MaxOpenConns > 0 {
			pool.MaxOpenConns = cfg.Database.MaxOpenConns
		}
		if cfg.Database.MaxIdleConns > 0 {
			pool.MaxIdleConns = cfg.Database.MaxIdleConns
		}
		if cfg.Database.ConnMaxLifetime > 0 {
			pool.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
		}
		pool.HealthCheckInterval = cfg.Database.HealthCheckInterval
		if pool.MaxIdleConns > pool.MaxOpenConns {
			pool.MaxIdleConns = pool.MaxOpenConns
		}

		pm, err := database.Open(cfg.Database.Driver, cfg.Database.DSN(), pool, logger)
		if err != nil {
			return nil, noopClose, fmt.Errorf("open sql store: %w", err)
		}
		store, err := kv.NewSQLStore(pm.DB(), logger)
		if err != nil {
			_ = pm.Close()
			return nil, noopClose, fmt.Errorf("open sql store: %w", err)
		}
		return store, pm.Close, nil

	default:
		return nil, noopClose, fmt.Errorf("unknown cache store %q (supported: memory, redis, sql)", cfg.Cache.Store)
	}
}
