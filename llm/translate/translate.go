package translate

import (
	"encoding/json"
	"fmt"

	"github.com/a1095753788/AI-Stars-sub000/llm"
	"github.com/a1095753788/AI-Stars-sub000/types"
)

// Options 控制请求体构造。
type Options struct {
	Stream bool
}

// Image 是已拆分好的待附加图片。
type Image struct {
	MIMEType string
	Data     string // 不含前缀的 base64
}

// DataURI 重新拼装为 data URI。
func (i Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + i.Data
}

// Request 是翻译器的输入。Image 非空时只附加到最后一条消息。
type Request struct {
	Messages []types.Message
	Config   llm.ProviderConfig
	Stream   bool
	Image    *Image
}

// Translator 把与厂商无关的对话转换为某一厂商的请求体。
type Translator interface {
	Translate(req Request) (any, error)
}

// TranslatorFunc 适配普通函数。
type TranslatorFunc func(req Request) (any, error)

func (f TranslatorFunc) Translate(req Request) (any, error) { return f(req) }

var (
	openAICompat = TranslatorFunc(translateOpenAI)

	translators = map[llm.ProviderID]Translator{
		llm.ProviderAnthropic: TranslatorFunc(translateAnthropic),
		llm.ProviderGemini:    TranslatorFunc(translateGemini),
		llm.ProviderQwen:      TranslatorFunc(translateQwen),
		llm.ProviderBaidu:     TranslatorFunc(translateBaidu),
	}
)

// For 返回 Provider 对应的翻译器；未注册的一律走 OpenAI 兼容格式。
func For(p llm.ProviderID) Translator {
	if t, ok := translators[p]; ok {
		return t
	}
	return openAICompat
}

// BuildRequestBody 构造文本请求体。
func BuildRequestBody(msgs []types.Message, cfg llm.ProviderConfig, opts Options) ([]byte, error) {
	return build(Request{Messages: msgs, Config: cfg, Stream: opts.Stream})
}

// BuildImageRequestBody 构造带图片的请求体。
// 能力表声明不支持多模态时直接返回 configuration 错误，不会发起任何网络请求。
func BuildImageRequestBody(msgs []types.Message, base64Image string, cfg llm.ProviderConfig, opts Options) ([]byte, error) {
	if !cfg.EffectiveCapabilities().Multimodal {
		return nil, types.NewConfigurationError(types.ErrCapabilityUnsupported,
			fmt.Sprintf("provider %s does not support image input", cfg.Provider)).
			WithProvider(string(cfg.Provider))
	}
	mime, data, err := SplitDataURI(base64Image)
	if err != nil {
		return nil, err
	}
	return build(Request{
		Messages: msgs,
		Config:   cfg,
		Stream:   opts.Stream,
		Image:    &Image{MIMEType: mime, Data: data},
	})
}

func build(req Request) ([]byte, error) {
	if len(req.Messages) == 0 {
		return nil, types.NewConfigurationError(types.ErrInvalidRequest, "conversation is empty").
			WithProvider(string(req.Config.Provider))
	}
	payload, err := For(req.Config.Provider).Translate(req)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, types.NewConfigurationError(types.ErrInvalidRequest, "failed to encode request body").
			WithProvider(string(req.Config.Provider)).
			WithCause(err)
	}
	return body, nil
}

// isLast 判断下标是否为最后一条消息
func isLast(i int, msgs []types.Message) bool { return i == len(msgs)-1 }
