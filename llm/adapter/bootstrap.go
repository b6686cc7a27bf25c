package adapter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/a1095753788/AI-Stars-sub000/config"
	"github.com/a1095753788/AI-Stars-sub000/internal/logging"
	"github.com/a1095753788/AI-Stars-sub000/internal/metrics"
	"github.com/a1095753788/AI-Stars-sub000/internal/telemetry"
	"github.com/a1095753788/AI-Stars-sub000/llm/cache"
)

// =============================================================================
// 🚀 按配置装配 Client
// =============================================================================

// ShutdownFunc 释放 NewFromConfig 创建的全部资源，可重复调用。
type ShutdownFunc func(ctx context.Context) error

// BootstrapOption 调整 NewFromConfig 的装配过程。
type BootstrapOption func(*bootstrap)

type bootstrap struct {
	registerer prometheus.Registerer
	logger     *zap.Logger
	telemetry  []telemetry.Option
	clientOpts []Option
}

// WithRegisterer 指定 Prometheus 注册器，默认 prometheus.DefaultRegisterer。
// 同一注册器上只能装配一次，重复注册会 panic。
func WithRegisterer(reg prometheus.Registerer) BootstrapOption {
	return func(b *bootstrap) { b.registerer = reg }
}

// WithBaseLogger 使用调用方已有的 Logger，而不是按 cfg.Log 新建。
// 传入的 Logger 由调用方负责 Sync。
func WithBaseLogger(logger *zap.Logger) BootstrapOption {
	return func(b *bootstrap) { b.logger = logger }
}

// WithTelemetryOptions 透传给遥测初始化，例如 telemetry.WithoutGlobal。
func WithTelemetryOptions(opts ...telemetry.Option) BootstrapOption {
	return func(b *bootstrap) { b.telemetry = append(b.telemetry, opts...) }
}

// WithClientOptions 追加 Client 选项，排在配置派生的选项之后，可覆盖它们。
func WithClientOptions(opts ...Option) BootstrapOption {
	return func(b *bootstrap) { b.clientOpts = append(b.clientOpts, opts...) }
}

// NewFromConfig 按配置装配一个可直接使用的 Client：
//   - 日志：cfg.Log
//   - 遥测：cfg.Telemetry（OTLP gRPC 导出 span 与 OTel 指标）
//   - Prometheus 指标：cfg.Metrics
//   - 结果缓存：cfg.Cache.Enabled 时按 cfg.Cache.Store 打开存储，并按 SweepInterval 定期清理
//   - 默认超时：cfg.Request
//
// 返回的 ShutdownFunc 按创建的逆序释放资源。装配失败时已创建的资源会被释放。
func NewFromConfig(ctx context.Context, cfg *config.Config, opts ...BootstrapOption) (*Client, ShutdownFunc, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, noopShutdown, err
	}

	b := bootstrap{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&b)
	}

	var res resources

	logger := b.logger
	if logger == nil {
		built, err := logging.New(cfg.Log)
		if err != nil {
			return nil, noopShutdown, err
		}
		logger = built
		res.add(func(context.Context) error {
			_ = logger.Sync() // stdout/stderr 上 Sync 可能返回 EINVAL
			return nil
		})
	}

	providers, err := telemetry.Init(ctx, cfg.Telemetry, logger, b.telemetry...)
	if err != nil {
		_ = res.shutdown(context.Background())
		return nil, noopShutdown, fmt.Errorf("init telemetry: %w", err)
	}
	res.add(providers.Shutdown)

	clientOpts := []Option{
		WithLogger(logger),
		WithTracerProvider(providers.TracerProvider()),
		WithMeterProvider(providers.MeterProvider()),
		WithDefaultTimeouts(cfg.Request.TextTimeout, cfg.Request.MultimodalTimeout),
	}

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace, b.registerer, logger)
		clientOpts = append(clientOpts, WithMetrics(collector))
	}

	if cfg.Cache.Enabled {
		store, closeStore, err := config.OpenStore(cfg, logger)
		if err != nil {
			_ = res.shutdown(context.Background())
			return nil, noopShutdown, err
		}
		res.add(func(context.Context) error { return closeStore() })

		cacheOpts := []cache.Option{
			cache.WithDefaultTTL(cfg.Cache.DefaultTTL),
			cache.WithLogger(logger),
		}
		if collector != nil {
			cacheOpts = append(cacheOpts, cache.WithMetrics(collector))
		}
		cc := cache.New(store, cacheOpts...)

		// 清理 goroutine 的生命周期由 ShutdownFunc 决定，与装配用的 ctx 无关
		stop := cc.StartSweeper(context.WithoutCancel(ctx), cfg.Cache.SweepInterval)
		res.add(func(context.Context) error {
			stop()
			return nil
		})
		clientOpts = append(clientOpts, WithCache(cc))
	}

	client := New(append(clientOpts, b.clientOpts...)...)

	logger.Info("llm adapter ready",
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.String("cache_store", cfg.Cache.Store),
		zap.Bool("metrics", cfg.Metrics.Enabled),
		zap.Bool("telemetry", providers.Enabled()),
		zap.Int("providers", len(cfg.Providers)),
	)
	return client, res.shutdown, nil
}

func noopShutdown(context.Context) error { return nil }

// resources 记录需要释放的资源，逆序关闭且只关闭一次
type resources struct {
	mu      sync.Mutex
	closers []func(context.Context) error
	done    bool
}

func (r *resources) add(fn func(context.Context) error) {
	r.closers = append(r.closers, fn)
}

func (r *resources) shutdown(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return nil
	}
	r.done = true

	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
