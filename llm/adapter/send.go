package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a1095753788/AI-Stars-sub000/internal/logging"
	"github.com/a1095753788/AI-Stars-sub000/llm"
	"github.com/a1095753788/AI-Stars-sub000/llm/cache"
	"github.com/a1095753788/AI-Stars-sub000/llm/observability"
	"github.com/a1095753788/AI-Stars-sub000/llm/parse"
	"github.com/a1095753788/AI-Stars-sub000/llm/streaming"
	"github.com/a1095753788/AI-Stars-sub000/llm/translate"
	"github.com/a1095753788/AI-Stars-sub000/types"
)

const (
	modeText   = "text"
	modeStream = "stream"
	modeImage  = "image"
)

const (
	// maxResponseBytes 限制非流式响应体大小
	maxResponseBytes = 32 << 20
	// maxErrorBodyBytes 限制错误响应体大小
	maxErrorBodyBytes = 64 << 10
)

// call 描述一次调用
type call struct {
	mode  string
	msgs  []types.Message
	cfg   llm.ProviderConfig
	opts  llm.RequestOptions
	image string
}

// outcome 汇总一次调用的结果与观测数据
type outcome struct {
	resp       llm.Response
	httpStatus int
	stats      streaming.Stats
}

// Send 发送非流式文本请求。所有失败都以 Response.Error 返回，从不 panic。
func (c *Client) Send(ctx context.Context, msgs []types.Message, cfg llm.ProviderConfig, opts llm.RequestOptions) llm.Response {
	return c.run(ctx, call{mode: modeText, msgs: msgs, cfg: cfg, opts: opts})
}

// SendStream 发送流式请求。opts.OnUpdate 按到达顺序收到累计文本，
// 返回值携带最终文本。ctx 取消会结束读取循环。
func (c *Client) SendStream(ctx context.Context, msgs []types.Message, cfg llm.ProviderConfig, opts llm.RequestOptions) llm.Response {
	return c.run(ctx, call{mode: modeStream, msgs: msgs, cfg: cfg, opts: opts})
}

// SendImage 发送带图片的请求，图片附在最后一条消息上。
// base64Image 可以是 data URI 或裸 base64；默认超时 90s，结果从不缓存。
func (c *Client) SendImage(ctx context.Context, msgs []types.Message, base64Image string, cfg llm.ProviderConfig, opts llm.RequestOptions) llm.Response {
	return c.run(ctx, call{mode: modeImage, msgs: msgs, cfg: cfg, opts: opts, image: base64Image})
}

func (c *Client) run(ctx context.Context, cl call) llm.Response {
	start := c.now()
	requestID, ok := types.RequestID(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = types.WithRequestID(ctx, requestID)
	}
	attrs := observability.RequestAttrs{
		Provider:  string(cl.cfg.Provider),
		Model:     cl.cfg.Model,
		Mode:      cl.mode,
		RequestID: requestID,
	}
	ctx, span := c.otel.StartRequest(ctx, attrs)
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("provider", attrs.Provider),
		zap.String("model", attrs.Model),
		zap.String("mode", cl.mode),
	)
	if id, ok := types.ConversationID(ctx); ok {
		logger = logger.With(zap.String("conversation_id", id))
	}
	if id, ok := types.TraceID(ctx); ok {
		logger = logger.With(zap.String("trace_id", id))
	}

	out := c.execute(ctx, cl, logger)
	duration := c.now().Sub(start)

	status := "success"
	result := observability.ResponseAttrs{
		HTTPStatus:   out.httpStatus,
		Duration:     duration,
		Cached:       out.resp.Cached,
		StreamDeltas: out.stats.Deltas,
	}
	switch {
	case !out.resp.OK():
		status = "error"
		if e := out.resp.Err; e != nil {
			result.ErrorCode = string(e.Code)
			result.ErrorKind = string(e.Kind)
		}
		logger.Warn("llm request failed",
			zap.String("code", result.ErrorCode),
			zap.String("kind", result.ErrorKind),
			zap.Int("http_status", out.httpStatus),
			zap.Duration("duration", duration),
			zap.String("error", out.resp.Error))
	case out.resp.Cached:
		status = "cached"
		logger.Debug("llm request served from cache", zap.Duration("duration", duration))
	default:
		logger.Debug("llm request completed",
			zap.Int("content_len", len(out.resp.Content)),
			zap.Duration("duration", duration))
	}
	result.Status = status
	c.otel.EndRequest(ctx, span, attrs, result)

	if c.recorder != nil {
		c.recorder.RecordLLMRequest(attrs.Provider, attrs.Model, cl.mode, status, duration)
		if cl.mode == modeStream && out.httpStatus != 0 {
			c.recorder.RecordStream(attrs.Provider, out.stats.Events, out.stats.Deltas, out.stats.DecodeErrors)
		}
	}
	return out.resp
}

// execute 依次完成：校验、缓存查询、构造请求、带超时的发送、解析与缓存回写。
func (c *Client) execute(ctx context.Context, cl call, logger *zap.Logger) outcome {
	cfg := cl.cfg
	fail := func(err *types.Error) outcome {
		if err.Provider == "" {
			err.Provider = string(cfg.Provider)
		}
		return outcome{resp: llm.Failure(cfg.Provider, err)}
	}

	// 1. 配置校验，早于任何网络 I/O
	if err := cfg.Validate(); err != nil {
		return fail(asTypesError(err, types.ErrIncompleteConfig))
	}
	if cl.mode == modeStream && !cfg.EffectiveCapabilities().Streaming {
		return fail(types.NewConfigurationError(types.ErrCapabilityUnsupported,
			fmt.Sprintf("provider %s does not support streaming", cfg.Provider)))
	}

	// 2. 缓存查询
	cacheKey := ""
	if c.cacheable(cl) {
		cacheKey = cache.Key(cl.msgs, cfg.Provider, cfg.Model, cfg.Endpoint)
		if content, ok := c.cache.Get(ctx, cacheKey); ok {
			if cl.mode == modeStream && cl.opts.OnUpdate != nil {
				cl.opts.OnUpdate(content)
			}
			return outcome{resp: llm.Success(cfg.Provider, content, true)}
		}
		c.otel.RecordCacheMiss(ctx, string(cfg.Provider), cfg.Model)
	}

	// 3. 构造 URL、请求体与请求头
	stream := cl.mode == modeStream
	target, err := llm.ResolveURL(cfg, llm.ResolveOptions{Stream: stream, Image: cl.mode == modeImage})
	if err != nil {
		return fail(asTypesError(err, types.ErrIncompleteConfig))
	}

	var body []byte
	if cl.mode == modeImage {
		body, err = translate.BuildImageRequestBody(cl.msgs, cl.image, cfg, translate.Options{})
	} else {
		body, err = translate.BuildRequestBody(cl.msgs, cfg, translate.Options{Stream: stream})
	}
	if err != nil {
		return fail(asTypesError(err, types.ErrInvalidRequest))
	}

	// 4. 发送，与超时计时器竞争。计时器触发会取消请求并关闭连接。
	timeout := c.timeoutFor(cl.opts, cl.mode == modeImage)
	reqCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	timer := time.AfterFunc(timeout, func() {
		cancel(fmt.Errorf("%w: no response within %s", context.DeadlineExceeded, timeout))
	})
	defer timer.Stop()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return fail(types.NewConfigurationError(types.ErrIncompleteConfig, "invalid endpoint URL").WithCause(err))
	}
	req.Header.Set("Content-Type", "application/json")
	copyHeaders(req.Header, llm.AuthHeaders(cfg.Provider, cfg.APIKey, llm.AuthOptions{
		OrganizationID: cfg.OrganizationID,
		APIVersion:     cfg.APIVersion,
	}))
	if stream {
		copyHeaders(req.Header, llm.StreamHeaders(cfg.Provider))
	}

	logger.Debug("sending llm request",
		zap.String("url", logging.RedactURL(target)),
		logging.APIKey(cfg.APIKey),
		zap.Int("body_bytes", len(body)),
		zap.Duration("timeout", timeout))

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(llm.TransportError(reqCtx, err, cfg.Provider))
	}
	defer resp.Body.Close()

	if c.recorder != nil {
		c.recorder.RecordUpstreamStatus(string(cfg.Provider), resp.StatusCode)
	}

	// 5. 非 2xx：错误信息为 "<status> <body>"
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		out := fail(llm.MapHTTPError(resp.StatusCode, strings.TrimSpace(string(raw)), cfg.Provider))
		out.httpStatus = resp.StatusCode
		return out
	}

	// 7. 流式：收到响应头后停止计时器，之后只受调用方 ctx 约束
	if stream && !isPlainJSON(resp.Header.Get("Content-Type")) {
		timer.Stop()
		out := c.consumeStream(reqCtx, resp.Body, cl, logger)
		out.httpStatus = resp.StatusCode
		if out.resp.OK() && cacheKey != "" && out.resp.Content != "" {
			c.writeCache(ctx, cacheKey, out.resp.Content, cl.opts.CacheTTL, logger)
		}
		return out
	}

	// 6. 非流式（或忽略了 stream 标志、直接返回 JSON 的流式请求）
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		out := fail(llm.TransportError(reqCtx, err, cfg.Provider))
		out.httpStatus = resp.StatusCode
		return out
	}
	if msg := parse.EmbeddedError(cfg.Provider, raw); msg != "" {
		out := fail(llm.EmbeddedProviderError(resp.StatusCode, msg, cfg.Provider))
		out.httpStatus = resp.StatusCode
		return out
	}
	result, err := parse.ParseResponse(raw, cfg.Provider)
	if err != nil {
		logger.Debug("undecodable llm response", zap.String("body", parse.ErrorMessage(raw)))
		out := fail(asTypesError(err, types.ErrMalformedResponse))
		out.httpStatus = resp.StatusCode
		return out
	}

	if stream && cl.opts.OnUpdate != nil && result.Content != "" {
		cl.opts.OnUpdate(result.Content)
	}
	if cacheKey != "" && result.Content != "" {
		c.writeCache(ctx, cacheKey, result.Content, cl.opts.CacheTTL, logger)
	}
	return outcome{resp: llm.Success(cfg.Provider, result.Content, false), httpStatus: resp.StatusCode}
}

// consumeStream 驱动流式解码器直到 DONE 或 ERRORED
func (c *Client) consumeStream(ctx context.Context, body io.Reader, cl call, logger *zap.Logger) outcome {
	opts := []streaming.Option{
		streaming.WithLogger(logger),
		streaming.WithProvider(cl.cfg.Provider),
	}
	if cl.opts.OnUpdate != nil {
		opts = append(opts, streaming.WithOnUpdate(cl.opts.OnUpdate))
	}
	dec := streaming.NewDecoder(streaming.DialectFor(cl.cfg.Provider), opts...)

	if err := streaming.Consume(ctx, body, dec, streaming.DefaultBufferSize); err != nil {
		resp := llm.Failure(cl.cfg.Provider, err)
		// 保留已收到的部分文本，Error 非空仍表示失败
		resp.Content = dec.Content()
		return outcome{resp: resp, stats: dec.Stats()}
	}
	return outcome{resp: llm.Success(cl.cfg.Provider, dec.Content(), false), stats: dec.Stats()}
}

// cacheable 判断本次调用是否参与缓存。图片请求从不缓存：图片不参与键计算。
func (c *Client) cacheable(cl call) bool {
	if c.cache == nil || !cl.opts.EnableCache {
		return false
	}
	switch cl.mode {
	case modeText:
		return true
	case modeStream:
		return cl.opts.CacheStream
	default:
		return false
	}
}

// writeCache 写缓存失败只记录日志，不影响本次结果
func (c *Client) writeCache(ctx context.Context, key, content string, ttl time.Duration, logger *zap.Logger) {
	if err := c.cache.Set(context.WithoutCancel(ctx), key, content, ttl); err != nil {
		logger.Warn("failed to write llm cache", zap.Error(err))
	}
}

func copyHeaders(dst, src http.Header) {
	for k, vs := range src {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

// isPlainJSON 判断响应是否为整块 JSON（部分网关会忽略 stream 标志）
func isPlainJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}

// asTypesError 从错误链中取出 *types.Error，取不到时按 fallback 码包装为 configuration 错误
func asTypesError(err error, fallback types.ErrorCode) *types.Error {
	if e, ok := types.AsError(err); ok {
		return e
	}
	return types.NewError(fallback, err.Error()).WithCause(err)
}
