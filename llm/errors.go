package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/a1095753788/AI-Stars-sub000/types"
)

// MapHTTPError 将非 2xx 响应映射为 provider 类错误。
// Message 固定为 "<status> <body>"，保持厂商原文，便于调用方直接展示。
func MapHTTPError(status int, body string, provider ProviderID) *types.Error {
	msg := fmt.Sprintf("%d %s", status, body)
	code := types.ErrUpstreamError
	retryable := false

	switch status {
	case http.StatusUnauthorized:
		code = types.ErrUnauthorized
	case http.StatusForbidden:
		code = types.ErrForbidden
	case http.StatusNotFound:
		code = types.ErrModelNotFound
	case http.StatusTooManyRequests:
		code = types.ErrRateLimited
		retryable = true
	case http.StatusBadRequest, http.StatusPaymentRequired:
		if status == http.StatusPaymentRequired || mentionsQuota(body) {
			code = types.ErrQuotaExceeded
		} else {
			code = types.ErrProviderRejected
		}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		retryable = true
	case 529: // Anthropic overloaded
		code = types.ErrModelOverloaded
		retryable = true
	default:
		retryable = status >= 500
		if status < 500 {
			code = types.ErrProviderRejected
		}
	}

	return types.NewProviderError(code, status, msg).
		WithRetryable(retryable).
		WithProvider(string(provider))
}

// EmbeddedProviderError 把 HTTP 200 里携带的错误信封转换为 provider 类错误。
// 百度、DashScope 等厂商鉴权失败或额度不足时仍返回 200。
func EmbeddedProviderError(status int, msg string, provider ProviderID) *types.Error {
	lower := strings.ToLower(msg)
	code := types.ErrProviderRejected
	switch {
	case mentionsQuota(msg):
		code = types.ErrQuotaExceeded
	case strings.Contains(lower, "api key"), strings.Contains(lower, "apikey"),
		strings.Contains(lower, "access token"), strings.Contains(lower, "access_token"),
		strings.Contains(lower, "unauthorized"):
		code = types.ErrUnauthorized
	case strings.Contains(lower, "rate limit"), strings.Contains(lower, "throttl"):
		code = types.ErrRateLimited
	}
	return types.NewProviderError(code, status, msg).
		WithRetryable(code == types.ErrRateLimited).
		WithProvider(string(provider))
}

func mentionsQuota(body string) bool {
	lower := strings.ToLower(body)
	return strings.Contains(lower, "quota") ||
		strings.Contains(lower, "credit") ||
		strings.Contains(lower, "insufficient")
}

// ContextError 区分超时与调用方取消。超时（包括计时器以 DeadlineExceeded 为因取消）
// 为可重试的 transport 错误，调用方取消则不可重试。
func ContextError(ctx context.Context) *types.Error {
	cause := context.Cause(ctx)
	if errors.Is(cause, context.DeadlineExceeded) {
		return types.NewTransportError(types.ErrUpstreamTimeout, "request timed out", cause)
	}
	return types.NewTransportError(types.ErrCanceled, "request canceled", cause).WithRetryable(false)
}

// TransportError 把 http.Client 返回的错误转换为 transport 错误。
// ctx 已结束时按 ContextError 归类。消息里不含请求 URL，避免泄漏查询参数中的 Key。
func TransportError(ctx context.Context, err error, provider ProviderID) *types.Error {
	if ctx.Err() != nil {
		return ContextError(ctx).WithProvider(string(provider))
	}
	cause := err
	var ue *url.Error
	if errors.As(err, &ue) {
		cause = ue.Err
	}
	return types.NewTransportError(types.ErrUpstreamError, "network error: "+cause.Error(), cause).
		WithProvider(string(provider))
}
