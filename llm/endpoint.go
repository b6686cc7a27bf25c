package llm

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/a1095753788/AI-Stars-sub000/types"
)

// AuthScheme 描述 API Key 放在请求的哪个位置。
type AuthScheme int

const (
	// AuthBearer: Authorization: Bearer <key>
	AuthBearer AuthScheme = iota
	// AuthHeader: 厂商自定义请求头
	AuthHeader
	// AuthQuery: URL 查询参数
	AuthQuery
)

func (s AuthScheme) String() string {
	switch s {
	case AuthHeader:
		return "header"
	case AuthQuery:
		return "query"
	default:
		return "bearer"
	}
}

const (
	DefaultAnthropicVersion = "2023-06-01"
	DefaultAzureAPIVersion  = "2024-02-15-preview"
	DefaultDoubaoRegion     = "cn-beijing"
	DefaultAzureRegion      = "eastus"

	qwenTextEndpoint       = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
	qwenMultimodalEndpoint = "https://dashscope.aliyuncs.com/api/v1/services/aigc/multimodal-generation/generation"
)

var defaultEndpoints = map[ProviderID]string{
	ProviderOpenAI:    "https://api.openai.com/v1/chat/completions",
	ProviderAzure:     "https://{region}.api.cognitive.microsoft.com/openai/deployments/{model}/chat/completions?api-version={apiVersion}",
	ProviderAnthropic: "https://api.anthropic.com/v1/messages",
	ProviderGemini:    "https://generativelanguage.googleapis.com/v1beta/models/{model}:generateContent",
	ProviderMistral:   "https://api.mistral.ai/v1/chat/completions",
	ProviderQwen:      qwenTextEndpoint,
	ProviderBaidu:     "https://aip.baidubce.com/rpc/2.0/ai_custom/v1/wenxinworkshop/chat/{model}",
	ProviderMiniMax:   "https://api.minimax.chat/v1/text/chatcompletion_v2",
	ProviderDeepSeek:  "https://api.deepseek.com/v1/chat/completions",
	ProviderZhipu:     "https://open.bigmodel.cn/api/paas/v4/chat/completions",
	ProviderMoonshot:  "https://api.moonshot.cn/v1/chat/completions",
	ProviderDoubao:    "https://ark.{region}.volces.com/api/v3/chat/completions",
	ProviderHunyuan:   "https://api.hunyuan.cloud.tencent.com/v1/chat/completions",
	ProviderXAI:       "https://api.x.ai/v1/chat/completions",
	ProviderOllama:    "http://localhost:11434/v1/chat/completions",
}

// DefaultEndpoint 返回 Provider 的默认 URL 模板；custom 返回空串，必须由调用方提供。
func DefaultEndpoint(p ProviderID) string {
	return defaultEndpoints[p]
}

// AuthSchemeOf 返回 Provider 的鉴权方式。
func AuthSchemeOf(p ProviderID) AuthScheme {
	switch p {
	case ProviderAzure, ProviderAnthropic:
		return AuthHeader
	case ProviderGemini, ProviderBaidu:
		return AuthQuery
	default:
		return AuthBearer
	}
}

// AuthOptions 携带少数厂商额外需要的鉴权头信息。
type AuthOptions struct {
	OrganizationID string
	APIVersion     string
}

// AuthHeaders 生成鉴权相关请求头。查询参数鉴权的 Provider 不返回鉴权头。
func AuthHeaders(p ProviderID, apiKey string, opts AuthOptions) http.Header {
	h := http.Header{}
	switch p {
	case ProviderAzure:
		h.Set("api-key", apiKey)
	case ProviderAnthropic:
		h.Set("x-api-key", apiKey)
		version := opts.APIVersion
		if version == "" {
			version = DefaultAnthropicVersion
		}
		h.Set("anthropic-version", version)
	case ProviderGemini, ProviderBaidu:
	default:
		h.Set("Authorization", "Bearer "+apiKey)
		if p == ProviderOpenAI && opts.OrganizationID != "" {
			h.Set("OpenAI-Organization", opts.OrganizationID)
		}
	}
	return h
}

// StreamHeaders 返回流式请求额外需要的头。
func StreamHeaders(p ProviderID) http.Header {
	h := http.Header{}
	h.Set("Accept", "text/event-stream")
	if p == ProviderQwen {
		h.Set("X-DashScope-SSE", "enable")
	}
	return h
}

// ResolveOptions 控制 URL 解析时的模式切换。
type ResolveOptions struct {
	Stream bool
	Image  bool
}

// ResolveURL 把配置中的端点模板解析为最终请求 URL。
func ResolveURL(cfg ProviderConfig, opts ResolveOptions) (string, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint(cfg.Provider)
	}
	if endpoint == "" {
		return "", types.NewConfigurationError(types.ErrIncompleteConfig, "no endpoint configured").
			WithProvider(string(cfg.Provider))
	}

	region := cfg.Region
	if region == "" {
		switch cfg.Provider {
		case ProviderDoubao:
			region = DefaultDoubaoRegion
		case ProviderAzure:
			region = DefaultAzureRegion
		}
	}
	apiVersion := cfg.APIVersion
	if apiVersion == "" && cfg.Provider == ProviderAzure {
		apiVersion = DefaultAzureAPIVersion
	}

	endpoint = strings.NewReplacer(
		"{model}", url.PathEscape(cfg.Model),
		"{region}", region,
		"{apiVersion}", apiVersion,
	).Replace(endpoint)

	if i := strings.Index(endpoint, "{"); i >= 0 {
		if j := strings.Index(endpoint[i:], "}"); j > 0 {
			return "", types.NewConfigurationError(types.ErrIncompleteConfig,
				"unresolved endpoint placeholder "+endpoint[i:i+j+1]).
				WithProvider(string(cfg.Provider))
		}
	}

	switch cfg.Provider {
	case ProviderGemini:
		if opts.Stream {
			endpoint = strings.Replace(endpoint, ":generateContent", ":streamGenerateContent", 1)
		}
	case ProviderQwen:
		if opts.Image && endpoint == qwenTextEndpoint {
			endpoint = qwenMultimodalEndpoint
		}
	}

	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", types.NewConfigurationError(types.ErrIncompleteConfig, "invalid endpoint URL: "+endpoint).
			WithProvider(string(cfg.Provider)).
			WithCause(err)
	}

	q := u.Query()
	if cfg.Provider == ProviderGemini && opts.Stream {
		q.Set("alt", "sse")
	}
	if AuthSchemeOf(cfg.Provider) == AuthQuery {
		q.Set(queryKeyName(cfg.Provider), cfg.APIKey)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func queryKeyName(p ProviderID) string {
	if p == ProviderBaidu {
		return "access_token"
	}
	return "key"
}
