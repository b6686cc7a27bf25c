package cache

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// 🧹 定期清理
// =============================================================================

// StartSweeper 每隔 interval 调用一次 ClearExpired，直到 ctx 结束或调用返回的 stop。
// interval <= 0 时不启动，stop 为空操作。stop 会等待清理 goroutine 退出。
func (c *Cache) StartSweeper(ctx context.Context, interval time.Duration) (stop func()) {
	if interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := c.ClearExpired(ctx); err != nil {
					c.logger.Warn("cache sweep failed", zap.Error(err))
				}
			}
		}
	}()

	c.logger.Debug("cache sweeper started", zap.Duration("interval", interval))
	return func() {
		cancel()
		<-done
	}
}
