package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/a1095753788/AI-Stars-sub000/llm"

// SpanName 是每次适配层调用的 span 名称
const SpanName = "llm.adapter.send"

// Metrics LLM 调用的 OTel 指标与追踪
type Metrics struct {
	tracer trace.Tracer
	meter  metric.Meter
	// 计数器
	requestTotal   metric.Int64Counter
	errorTotal     metric.Int64Counter
	cacheHitTotal  metric.Int64Counter
	cacheMissTotal metric.Int64Counter
	streamDeltas   metric.Int64Counter
	// 直方图
	requestDuration metric.Float64Histogram
	// 进行中
	activeRequests metric.Int64UpDownCounter
}

// NewMetrics 使用全局 Provider 创建指标收集器
func NewMetrics() (*Metrics, error) {
	return NewMetricsWith(otel.GetTracerProvider(), otel.GetMeterProvider())
}

// NewMetricsWith 使用指定的 Provider 创建指标收集器；nil 时回退到全局 Provider
func NewMetricsWith(tp trace.TracerProvider, mp metric.MeterProvider) (*Metrics, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	m := &Metrics{
		tracer: tp.Tracer(instrumentationName),
		meter:  meter,
	}

	var err error

	// 请求计数
	m.requestTotal, err = meter.Int64Counter("llm.request.total",
		metric.WithDescription("Total number of LLM requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	// 错误计数
	m.errorTotal, err = meter.Int64Counter("llm.error.total",
		metric.WithDescription("Total number of failed LLM requests"),
		metric.WithUnit("{error}"))
	if err != nil {
		return nil, err
	}

	// 缓存命中
	m.cacheHitTotal, err = meter.Int64Counter("llm.cache.hit.total",
		metric.WithDescription("Total cache hits"),
		metric.WithUnit("{hit}"))
	if err != nil {
		return nil, err
	}

	// 缓存未命中
	m.cacheMissTotal, err = meter.Int64Counter("llm.cache.miss.total",
		metric.WithDescription("Total cache misses"),
		metric.WithUnit("{miss}"))
	if err != nil {
		return nil, err
	}

	// 流式增量
	m.streamDeltas, err = meter.Int64Counter("llm.stream.delta.total",
		metric.WithDescription("Total streaming text deltas received"),
		metric.WithUnit("{delta}"))
	if err != nil {
		return nil, err
	}

	// 请求延迟
	m.requestDuration, err = meter.Float64Histogram("llm.request.duration",
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 90))
	if err != nil {
		return nil, err
	}

	// 活跃请求数
	m.activeRequests, err = meter.Int64UpDownCounter("llm.request.active",
		metric.WithDescription("Number of active requests"),
		metric.WithUnit("{request}"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RequestAttrs 请求属性
type RequestAttrs struct {
	Provider  string
	Model     string
	Mode      string // text, stream, image
	RequestID string
}

// ResponseAttrs 响应属性
type ResponseAttrs struct {
	Status       string
	ErrorCode    string
	ErrorKind    string
	HTTPStatus   int
	Duration     time.Duration
	Cached       bool
	StreamDeltas int
}

func (a RequestAttrs) common() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("provider", a.Provider),
		attribute.String("model", a.Model),
		attribute.String("mode", a.Mode),
	}
}

// StartRequest 开始请求追踪
func (m *Metrics) StartRequest(ctx context.Context, attrs RequestAttrs) (context.Context, trace.Span) {
	ctx, span := m.tracer.Start(ctx, SpanName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("llm.provider", attrs.Provider),
			attribute.String("llm.model", attrs.Model),
			attribute.String("llm.mode", attrs.Mode),
			attribute.String("llm.request_id", attrs.RequestID),
		))

	m.activeRequests.Add(ctx, 1, metric.WithAttributes(attrs.common()...))

	return ctx, span
}

// EndRequest 结束请求追踪
func (m *Metrics) EndRequest(ctx context.Context, span trace.Span, req RequestAttrs, resp ResponseAttrs) {
	defer span.End()

	commonAttrs := append(req.common(), attribute.String("status", resp.Status))

	m.activeRequests.Add(ctx, -1, metric.WithAttributes(req.common()...))
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(commonAttrs...))
	m.requestDuration.Record(ctx, resp.Duration.Seconds(), metric.WithAttributes(commonAttrs...))

	if resp.ErrorCode != "" {
		m.errorTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", req.Provider),
			attribute.String("model", req.Model),
			attribute.String("error_code", resp.ErrorCode),
			attribute.String("error_kind", resp.ErrorKind)))

		span.SetAttributes(
			attribute.String("error.code", resp.ErrorCode),
			attribute.String("error.kind", resp.ErrorKind))
		span.SetStatus(codes.Error, resp.ErrorCode)
	}

	if resp.Cached {
		m.cacheHitTotal.Add(ctx, 1, metric.WithAttributes(req.common()...))
		span.SetAttributes(attribute.Bool("llm.cache_hit", true))
	}

	if resp.StreamDeltas > 0 {
		m.streamDeltas.Add(ctx, int64(resp.StreamDeltas), metric.WithAttributes(req.common()...))
	}

	if resp.HTTPStatus > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", resp.HTTPStatus))
	}
	span.SetAttributes(
		attribute.String("llm.status", resp.Status),
		attribute.Float64("llm.duration_ms", float64(resp.Duration.Milliseconds())))
}

// RecordCacheMiss 记录缓存未命中
func (m *Metrics) RecordCacheMiss(ctx context.Context, provider, model string) {
	m.cacheMissTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("model", model)))
}

// Tracer 获取 Tracer
func (m *Metrics) Tracer() trace.Tracer {
	return m.tracer
}
