package llm

import (
	"time"

	"github.com/a1095753788/AI-Stars-sub000/types"
)

const (
	DefaultTextTimeout       = 30 * time.Second
	DefaultMultimodalTimeout = 90 * time.Second
)

// Response 是所有入口的统一返回值。Error 为空当且仅当成功。
type Response struct {
	Content  string       `json:"content"`
	Error    string       `json:"error,omitempty"`
	Err      *types.Error `json:"-"`
	Cached   bool         `json:"cached,omitempty"`
	Provider ProviderID   `json:"provider,omitempty"`
}

// OK 判断本次调用是否成功。
func (r Response) OK() bool { return r.Error == "" }

// Success 构造成功响应。
func Success(provider ProviderID, content string, cached bool) Response {
	return Response{Content: content, Cached: cached, Provider: provider}
}

// Failure 构造失败响应；err 为 nil 时视为未知上游错误。
func Failure(provider ProviderID, err *types.Error) Response {
	if err == nil {
		err = types.NewError(types.ErrUpstreamError, "unknown error")
	}
	msg := err.Message
	if msg == "" {
		msg = string(err.Code)
	}
	return Response{Error: msg, Err: err, Provider: provider}
}

// RequestOptions 控制单次调用。零值即可使用。
type RequestOptions struct {
	// Timeout 为 0 时按文本 30s / 多模态 90s 取默认值。
	Timeout time.Duration
	// EnableCache 开启非流式结果缓存。
	EnableCache bool
	// CacheTTL 为 0 时使用缓存层默认 TTL。
	CacheTTL time.Duration
	// CacheStream 允许缓存流式调用的最终文本。
	CacheStream bool
	// OnUpdate 在流式调用中收到累计文本。
	OnUpdate func(cumulative string)
}

// EffectiveTimeout 返回实际超时。
func (o RequestOptions) EffectiveTimeout(multimodal bool) time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	if multimodal {
		return DefaultMultimodalTimeout
	}
	return DefaultTextTimeout
}
