package parse

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/a1095753788/AI-Stars-sub000/llm"
	"github.com/a1095753788/AI-Stars-sub000/types"
)

// Result 是解析后的成功载荷。
type Result struct {
	Content string
}

// Extractor 从已校验的 JSON 中提取文本。缺失路径返回空串。
type Extractor func(body gjson.Result) string

var (
	openAIExtractor = Extractor(extractOpenAI)

	extractors = map[llm.ProviderID]Extractor{
		llm.ProviderAnthropic: extractAnthropic,
		llm.ProviderGemini:    extractGemini,
		llm.ProviderQwen:      extractQwen,
		llm.ProviderBaidu:     extractBaidu,
	}
)

func extractorFor(p llm.ProviderID) Extractor {
	if e, ok := extractors[p]; ok {
		return e
	}
	return openAIExtractor
}

// ContentOf 是全函数：任何路径缺失或 body 非法都返回空串，从不失败。
func ContentOf(provider llm.ProviderID, body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return extractorFor(provider)(gjson.ParseBytes(body))
}

// ParseResponse 只在 body 不是合法 JSON 时返回 decode 错误，
// 合法但无内容时返回空 Content。
func ParseResponse(body []byte, provider llm.ProviderID) (Result, error) {
	if !gjson.ValidBytes(body) {
		return Result{}, types.NewDecodeError(types.ErrMalformedResponse, "response body is not valid JSON", nil).
			WithProvider(string(provider))
	}
	return Result{Content: extractorFor(provider)(gjson.ParseBytes(body))}, nil
}

func extractOpenAI(r gjson.Result) string {
	return textOf(r.Get("choices.0.message.content"))
}

func extractAnthropic(r gjson.Result) string {
	var sb strings.Builder
	r.Get("content").ForEach(func(_, block gjson.Result) bool {
		if t := block.Get("type").String(); t == "" || t == "text" {
			sb.WriteString(block.Get("text").String())
		}
		return true
	})
	return sb.String()
}

func extractGemini(r gjson.Result) string {
	return joinStrings(r.Get("candidates.0.content.parts.#.text"))
}

func extractQwen(r gjson.Result) string {
	if t := r.Get("output.text"); t.Exists() && t.String() != "" {
		return t.String()
	}
	return textOf(r.Get("output.choices.0.message.content"))
}

func extractBaidu(r gjson.Result) string {
	return r.Get("result").String()
}

// textOf 兼容 string 与 [{type,text}] / [{text}] 两种内容形态
func textOf(v gjson.Result) string {
	if v.IsArray() {
		return joinStrings(v.Get("#.text"))
	}
	if v.Type == gjson.String {
		return v.String()
	}
	return ""
}

func joinStrings(arr gjson.Result) string {
	var sb strings.Builder
	for _, item := range arr.Array() {
		sb.WriteString(item.String())
	}
	return sb.String()
}
