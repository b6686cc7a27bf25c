package streaming

import "github.com/a1095753788/AI-Stars-sub000/llm"

// DialectFor 为 Provider 选择流式方言，每次返回新实例。
func DialectFor(p llm.ProviderID) Dialect {
	switch p {
	case llm.ProviderAnthropic:
		return TypedEvent()
	case llm.ProviderGemini:
		return SSE("candidates.0.content.parts.#.text")
	case llm.ProviderQwen:
		return SSE("output.choices.0.message.content", "output.text")
	case llm.ProviderBaidu:
		return SSE("result")
	case llm.ProviderCustom:
		return Generic()
	default:
		return SSE("choices.0.delta.content")
	}
}
