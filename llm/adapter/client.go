package adapter

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/a1095753788/AI-Stars-sub000/internal/tlsutil"
	"github.com/a1095753788/AI-Stars-sub000/llm"
	"github.com/a1095753788/AI-Stars-sub000/llm/cache"
	"github.com/a1095753788/AI-Stars-sub000/llm/observability"
)

// Recorder 接收 Prometheus 侧的调用指标，由 internal/metrics.Collector 实现。
type Recorder interface {
	RecordLLMRequest(provider, model, mode, status string, duration time.Duration)
	RecordUpstreamStatus(provider string, status int)
	RecordStream(provider string, events, deltas, decodeErrors int)
}

// Option 配置 Client。
type Option func(*Client)

// WithHTTPClient 替换默认的 HTTP 客户端。超时由每次调用的 context 控制，
// 传入的客户端不应再设置 Timeout，否则长流会被截断。
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCache 启用结果缓存。未设置时 EnableCache 选项被忽略。
func WithCache(cc *cache.Cache) Option {
	return func(c *Client) { c.cache = cc }
}

// WithLogger 设置日志器。
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics 设置 Prometheus 指标记录器。
func WithMetrics(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// WithTracerProvider 设置 OTel TracerProvider。
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tp = tp }
}

// WithMeterProvider 设置 OTel MeterProvider。
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *Client) { c.mp = mp }
}

// WithDefaultTimeouts 设置 RequestOptions.Timeout 为 0 时使用的超时。
// 传 0 的一项保持内置默认值（文本 30s / 多模态 90s）。
func WithDefaultTimeouts(text, multimodal time.Duration) Option {
	return func(c *Client) {
		c.textTimeout = text
		c.multimodalTimeout = multimodal
	}
}

// withClock 仅供测试注入时钟。
func withClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// Client 是适配层的调用入口。零配置即可使用，可被多个 goroutine 共享；
// 每次调用相互独立，不做全局并发限制。
type Client struct {
	http     *http.Client
	cache    *cache.Cache
	logger   *zap.Logger
	recorder Recorder
	tp       trace.TracerProvider
	mp       metric.MeterProvider
	otel     *observability.Metrics
	now      func() time.Time

	textTimeout       time.Duration
	multimodalTimeout time.Duration
}

// New 创建 Client。
func New(opts ...Option) *Client {
	c := &Client{
		http:   tlsutil.SecureHTTPClient(0),
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("component", "llm_adapter"))

	m, err := observability.NewMetricsWith(c.tp, c.mp)
	if err != nil {
		c.logger.Warn("failed to create otel instruments, falling back to noop", zap.Error(err))
		m, _ = observability.NewMetricsWith(tracenoop.NewTracerProvider(), metricnoop.NewMeterProvider())
	}
	c.otel = m
	return c
}

// timeoutFor 按调用选项、客户端默认值、内置默认值的顺序取超时
func (c *Client) timeoutFor(opts llm.RequestOptions, multimodal bool) time.Duration {
	if opts.Timeout > 0 {
		return opts.Timeout
	}
	if multimodal && c.multimodalTimeout > 0 {
		return c.multimodalTimeout
	}
	if !multimodal && c.textTimeout > 0 {
		return c.textTimeout
	}
	return opts.EffectiveTimeout(multimodal)
}
