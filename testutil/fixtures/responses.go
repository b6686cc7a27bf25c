// =============================================================================
// 📦 测试数据工厂 - 厂商响应样例
// =============================================================================
// 提供各厂商非流式响应体与流式事件，用于测试
// =============================================================================
package fixtures

import (
	"encoding/json"
	"fmt"
	"strings"
)

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(data)
}

// =============================================================================
// 🎯 非流式响应
// =============================================================================

// OpenAIResponse 返回 OpenAI 兼容的 chat/completions 响应
func OpenAIResponse(content string) string {
	return mustJSON(map[string]any{
		"id":     "chatcmpl-001",
		"object": "chat.completion",
		"model":  "gpt-4o",
		"choices": []any{map[string]any{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 20, "total_tokens": 30},
	})
}

// AnthropicResponse 返回 Anthropic messages 响应，content 拆成多个 text 块
func AnthropicResponse(parts ...string) string {
	blocks := make([]any, 0, len(parts))
	for _, p := range parts {
		blocks = append(blocks, map[string]any{"type": "text", "text": p})
	}
	return mustJSON(map[string]any{
		"id":          "msg_001",
		"type":        "message",
		"role":        "assistant",
		"content":     blocks,
		"stop_reason": "end_turn",
	})
}

// GeminiResponse 返回 Gemini generateContent 响应
func GeminiResponse(content string) string {
	return mustJSON(map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"role":  "model",
				"parts": []any{map[string]any{"text": content}},
			},
			"finishReason": "STOP",
		}},
	})
}

// QwenResponse 返回 DashScope 文本生成响应
func QwenResponse(content string) string {
	return mustJSON(map[string]any{
		"request_id": "req-001",
		"output": map[string]any{
			"choices": []any{map[string]any{
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		},
	})
}

// BaiduResponse 返回文心 chat 响应
func BaiduResponse(content string) string {
	return mustJSON(map[string]any{
		"id":     "as-001",
		"object": "chat.completion",
		"result": content,
	})
}

// =============================================================================
// ❌ 错误信封
// =============================================================================

// BaiduError 返回 HTTP 200 里携带的百度错误信封
func BaiduError(code int, msg string) string {
	return mustJSON(map[string]any{"error_code": code, "error_msg": msg})
}

// QwenError 返回 DashScope 错误信封
func QwenError(code, msg string) string {
	return mustJSON(map[string]any{"code": code, "message": msg, "request_id": "req-err"})
}

// OpenAIError 返回 OpenAI 风格的错误体
func OpenAIError(msg, typ string) string {
	return mustJSON(map[string]any{"error": map[string]any{"message": msg, "type": typ}})
}

// =============================================================================
// 🌊 流式事件
// =============================================================================

// SSEEvent 格式化一个 data-only SSE 事件
func SSEEvent(data string) string {
	return "data: " + data + "\n\n"
}

// SSETypedEvent 格式化一个带 event 名的 SSE 事件
func SSETypedEvent(event, data string) string {
	return "event: " + event + "\ndata: " + data + "\n\n"
}

// SSEDone 是 OpenAI 兼容流的结束标记
const SSEDone = "data: [DONE]\n\n"

// OpenAIStream 返回 OpenAI 兼容的完整 SSE 流，每个 delta 一个事件
func OpenAIStream(deltas ...string) string {
	var b strings.Builder
	for _, d := range deltas {
		b.WriteString(SSEEvent(mustJSON(map[string]any{
			"object":  "chat.completion.chunk",
			"choices": []any{map[string]any{"index": 0, "delta": map[string]any{"content": d}}},
		})))
	}
	b.WriteString(SSEDone)
	return b.String()
}

// AnthropicStream 返回 Anthropic 类型化事件流
func AnthropicStream(deltas ...string) string {
	var b strings.Builder
	b.WriteString(SSETypedEvent("message_start", `{"type":"message_start","message":{"id":"msg_001","role":"assistant"}}`))
	b.WriteString(SSETypedEvent("content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`))
	b.WriteString(SSETypedEvent("ping", `{"type":"ping"}`))
	for _, d := range deltas {
		b.WriteString(SSETypedEvent("content_block_delta", mustJSON(map[string]any{
			"type":  "content_block_delta",
			"index": 0,
			"delta": map[string]any{"type": "text_delta", "text": d},
		})))
	}
	b.WriteString(SSETypedEvent("content_block_stop", `{"type":"content_block_stop","index":0}`))
	b.WriteString(SSETypedEvent("message_stop", `{"type":"message_stop"}`))
	return b.String()
}

// GeminiStream 返回 alt=sse 模式下的 Gemini 流，没有 [DONE] 标记
func GeminiStream(deltas ...string) string {
	var b strings.Builder
	for _, d := range deltas {
		b.WriteString(SSEEvent(GeminiResponse(d)))
	}
	return b.String()
}

// BaiduStream 返回文心流，最后一个事件带 is_end
func BaiduStream(deltas ...string) string {
	var b strings.Builder
	for i, d := range deltas {
		b.WriteString(SSEEvent(fmt.Sprintf(`{"id":"as-001","result":%q,"is_end":%t}`, d, i == len(deltas)-1)))
	}
	return b.String()
}
