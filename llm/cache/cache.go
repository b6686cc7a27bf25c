package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/a1095753788/AI-Stars-sub000/llm/kv"
)

// DefaultTTL 是未指定 TTL 时的缓存有效期
const DefaultTTL = time.Hour

const cacheType = "llm_response"

// Entry 是存储中的一条缓存记录，以 JSON 序列化。
// Timestamp 与 TTL 均为毫秒。
type Entry struct {
	Key       string `json:"key"`
	Data      string `json:"data"`
	Timestamp int64  `json:"timestamp"`
	TTL       int64  `json:"ttl"`
}

// Expired 当 timestamp+ttl < now 时条目过期。
func (e Entry) Expired(now time.Time) bool {
	return e.Timestamp+e.TTL < now.UnixMilli()
}

// Metrics 记录缓存命中情况，由 internal/metrics.Collector 实现。
type Metrics interface {
	RecordCacheHit(cacheType string)
	RecordCacheMiss(cacheType string)
	RecordCacheEviction(cacheType string, count int)
}

// Option 配置 Cache。
type Option func(*Cache)

// WithClock 注入时钟，测试中用于推进时间。
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger 设置日志器。
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDefaultTTL 设置默认 TTL。
func WithDefaultTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.defaultTTL = ttl
		}
	}
}

// WithMetrics 设置指标记录器。
func WithMetrics(m Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// Cache 是建立在 kv.Store 之上的 TTL 结果缓存。过期在读取时惰性判断，
// 存储错误一律降级为未命中，缓存永远不会让请求失败。
// 同一键的并发未命中都会写入，后写者覆盖。
type Cache struct {
	store      kv.Store
	now        func() time.Time
	logger     *zap.Logger
	defaultTTL time.Duration
	metrics    Metrics
}

// New 创建缓存。
func New(store kv.Store, opts ...Option) *Cache {
	c := &Cache{
		store:      store,
		now:        time.Now,
		logger:     zap.NewNop(),
		defaultTTL: DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "llm_cache"))
	return c
}

// DefaultTTL 返回默认 TTL。
func (c *Cache) DefaultTTL() time.Duration { return c.defaultTTL }

// Get 读取未过期的条目。缺失、无法解码或已过期都视为未命中，
// 后两种情况会顺带删除条目。
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !kv.IsNotFound(err) {
			c.logger.Warn("cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		}
		c.miss()
		return "", false
	}

	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		c.logger.Debug("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		c.drop(ctx, key)
		c.miss()
		return "", false
	}

	if e.Expired(c.now()) {
		c.drop(ctx, key)
		c.miss()
		return "", false
	}

	if c.metrics != nil {
		c.metrics.RecordCacheHit(cacheType)
	}
	return e.Data, true
}

// Set 无条件覆盖写入。ttl <= 0 时使用默认 TTL。
func (c *Cache) Set(ctx context.Context, key, data string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	e := Entry{
		Key:       key,
		Data:      data,
		Timestamp: c.now().UnixMilli(),
		TTL:       ttl.Milliseconds(),
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := c.store.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// ClearExpired 扫描所有缓存条目并删除过期或无法解码的条目，返回删除数量。
func (c *Cache) ClearExpired(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx, KeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list cache keys: %w", err)
	}

	now := c.now()
	removed := 0
	for _, key := range keys {
		raw, err := c.store.Get(ctx, key)
		if err != nil {
			continue
		}
		var e Entry
		if json.Unmarshal([]byte(raw), &e) == nil && !e.Expired(now) {
			continue
		}
		if err := c.store.Delete(ctx, key); err != nil {
			c.logger.Warn("failed to delete expired cache entry", zap.String("key", key), zap.Error(err))
			continue
		}
		removed++
	}

	c.evicted(removed)
	c.logger.Debug("expired cache entries cleared", zap.Int("removed", removed), zap.Int("scanned", len(keys)))
	return removed, nil
}

// Clear 删除所有缓存条目，返回删除数量。
func (c *Cache) Clear(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx, KeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list cache keys: %w", err)
	}

	removed := 0
	for _, key := range keys {
		if err := c.store.Delete(ctx, key); err != nil {
			return removed, fmt.Errorf("failed to delete cache entry %s: %w", key, err)
		}
		removed++
	}

	c.evicted(removed)
	c.logger.Info("cache cleared", zap.Int("removed", removed))
	return removed, nil
}

func (c *Cache) drop(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.logger.Warn("failed to delete stale cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	c.evicted(1)
}

func (c *Cache) miss() {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss(cacheType)
	}
}

func (c *Cache) evicted(n int) {
	if c.metrics != nil && n > 0 {
		c.metrics.RecordCacheEviction(cacheType, n)
	}
}
