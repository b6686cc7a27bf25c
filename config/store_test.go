package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/a1095753788/AI-Stars-sub000/llm/kv"
)

func roundTrip(t *testing.T, store kv.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "llm:cache:k", "v"))
	got, err := store.Get(ctx, "llm:cache:k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := DefaultConfig()

	store, closeFn, err := OpenStore(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	assert.IsType(t, &kv.MemoryStore{}, store)
	roundTrip(t, store)
}

func TestOpenStore_Redis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := DefaultConfig()
	cfg.Cache.Store = StoreRedis
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.HealthCheckInterval = 0

	store, closeFn, err := OpenStore(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	assert.IsType(t, &kv.RedisStore{}, store)
	roundTrip(t, store)
	assert.True(t, mr.Exists("llm:cache:k"))
}

func TestOpenStore_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := DefaultConfig()
	cfg.Cache.Store = StoreRedis
	cfg.Redis.Addr = addr

	_, closeFn, err := OpenStore(cfg, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.NotNil(t, closeFn)
	assert.NoError(t, closeFn())
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Store = StoreSQL
	cfg.Database.Driver = "sqlite"
	cfg.Database.Name = filepath.Join(t.TempDir(), "cache.db")

	store, closeFn, err := OpenStore(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeFn() })

	assert.IsType(t, &kv.SQLStore{}, store)
	roundTrip(t, store)
}

func TestOpenStore_SQLHealthCheckInterval(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	cfg := DefaultConfig()
	cfg.Cache.Store = StoreSQL
	cfg.Database.Driver = "sqlite"
	cfg.Database.Name = filepath.Join(t.TempDir(), "cache.db")
	cfg.Database.HealthCheckInterval = 20 * time.Millisecond

	_, closeFn, err := OpenStore(cfg, zap.New(core))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("database health check passed").Len() > 0
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, closeFn())
}

func TestOpenStore_UnsupportedDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Store = StoreSQL
	cfg.Database.Driver = "oracle"

	_, _, err := OpenStore(cfg, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestOpenStore_UnknownStore(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Store = "etcd"

	_, closeFn, err := OpenStore(cfg, nil)
	require.Error(t, err)
	assert.NoError(t, closeFn())
}
