package llm

import (
	"strings"

	"github.com/a1095753788/AI-Stars-sub000/types"
)

// ProviderID 标识一个上游 LLM 厂商。所有翻译、解析、解码分支都以它为键，
// 不以自由文本在系统内传递。
type ProviderID string

const (
	ProviderOpenAI    ProviderID = "openai"
	ProviderAzure     ProviderID = "azure"
	ProviderAnthropic ProviderID = "anthropic"
	ProviderGemini    ProviderID = "gemini"
	ProviderMistral   ProviderID = "mistral"
	ProviderQwen      ProviderID = "qwen"
	ProviderBaidu     ProviderID = "baidu"
	ProviderMiniMax   ProviderID = "minimax"
	ProviderDeepSeek  ProviderID = "deepseek"
	ProviderZhipu     ProviderID = "zhipu"
	ProviderMoonshot  ProviderID = "moonshot"
	ProviderDoubao    ProviderID = "doubao"
	ProviderHunyuan   ProviderID = "hunyuan"
	ProviderXAI       ProviderID = "xai"
	ProviderOllama    ProviderID = "ollama"
	ProviderCustom    ProviderID = "custom"
)

// AllProviders 返回封闭枚举中的全部 Provider，顺序固定。
func AllProviders() []ProviderID {
	return []ProviderID{
		ProviderOpenAI, ProviderAzure, ProviderAnthropic, ProviderGemini,
		ProviderMistral, ProviderQwen, ProviderBaidu, ProviderMiniMax,
		ProviderDeepSeek, ProviderZhipu, ProviderMoonshot, ProviderDoubao,
		ProviderHunyuan, ProviderXAI, ProviderOllama, ProviderCustom,
	}
}

// providerAliases 兼容设置页里常见的别名写法
var providerAliases = map[string]ProviderID{
	"claude":       ProviderAnthropic,
	"azure-openai": ProviderAzure,
	"azure_openai": ProviderAzure,
	"google":       ProviderGemini,
	"dashscope":    ProviderQwen,
	"tongyi":       ProviderQwen,
	"wenxin":       ProviderBaidu,
	"ernie":        ProviderBaidu,
	"glm":          ProviderZhipu,
	"kimi":         ProviderMoonshot,
	"grok":         ProviderXAI,
}

// ParseProviderID 将设置中的字符串映射为枚举值；无法识别时返回 ProviderCustom。
func ParseProviderID(s string) ProviderID {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, p := range AllProviders() {
		if string(p) == s {
			return p
		}
	}
	if p, ok := providerAliases[s]; ok {
		return p
	}
	return ProviderCustom
}

// Known 判断是否为枚举内的值。
func (p ProviderID) Known() bool {
	for _, known := range AllProviders() {
		if p == known {
			return true
		}
	}
	return false
}

func (p ProviderID) String() string { return string(p) }

// ProviderConfig 是调用方（设置/存储协作者）持有的 Provider 配置。
// 适配层只读使用，从不持久化。
type ProviderConfig struct {
	Provider ProviderID `json:"provider" yaml:"provider"`
	Endpoint string     `json:"endpoint" yaml:"endpoint"`
	APIKey   string     `json:"api_key" yaml:"api_key"`
	Model    string     `json:"model" yaml:"model"`

	// Temperature 为 nil 表示未设置，由翻译器按 Provider 默认值补齐。
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	// MaxTokens 为 0 表示未设置。
	MaxTokens int `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`

	// Capabilities 非空时覆盖静态能力表（自定义端点由使用者声明能力）。
	Capabilities *Capabilities `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`

	OrganizationID string `json:"organization_id,omitempty" yaml:"organization_id,omitempty"`
	APIVersion     string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	Region         string `json:"region,omitempty" yaml:"region,omitempty"`
}

// Validate 在任何网络 I/O 之前检查必填项。
func (c ProviderConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.APIKey) == "" {
		missing = append(missing, "apiKey")
	}
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "endpoint")
	}
	if strings.TrimSpace(c.Model) == "" {
		missing = append(missing, "model")
	}
	if len(missing) > 0 {
		return types.NewConfigurationError(types.ErrIncompleteConfig,
			"incomplete configuration: missing "+strings.Join(missing, ", ")).
			WithProvider(string(c.Provider))
	}
	return nil
}

// EffectiveCapabilities 返回本配置实际生效的能力。
func (c ProviderConfig) EffectiveCapabilities() Capabilities {
	if c.Capabilities != nil {
		return *c.Capabilities
	}
	return CapabilitiesOf(c.Provider)
}

// WithDefaultEndpoint 在 Endpoint 为空时填入 Provider 的默认端点模板。
func (c ProviderConfig) WithDefaultEndpoint() ProviderConfig {
	if strings.TrimSpace(c.Endpoint) == "" {
		c.Endpoint = DefaultEndpoint(c.Provider)
	}
	return c
}
