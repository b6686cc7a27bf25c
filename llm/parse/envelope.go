package parse

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/a1095753788/AI-Stars-sub000/llm"
)

// EmbeddedError 识别 HTTP 200 中携带的错误信封，返回可读信息；没有则返回空串。
// 只有百度与 DashScope 会用 200 返回错误，其余厂商的 200 一律按正常响应解析。
//   - 百度: {"error_code": 110, "error_msg": "..."} 或 OAuth 的 {"error": "..."}
//   - DashScope: {"code": "InvalidApiKey", "message": "..."}
func EmbeddedError(provider llm.ProviderID, body []byte) string {
	if !sendsErrorsWith200(provider) || !gjson.ValidBytes(body) {
		return ""
	}
	r := gjson.ParseBytes(body)

	switch provider {
	case llm.ProviderBaidu:
		if code := r.Get("error_code"); code.Exists() && code.Int() != 0 {
			return fmt.Sprintf("%d %s", code.Int(), r.Get("error_msg").String())
		}
	case llm.ProviderQwen:
		if code := r.Get("code"); code.Exists() && code.String() != "" && !r.Get("output").Exists() {
			return strings.TrimSpace(code.String() + " " + r.Get("message").String())
		}
	}

	if e := r.Get("error"); e.IsObject() {
		if msg := e.Get("message").String(); msg != "" {
			return msg
		}
		return e.Raw
	} else if e.Type == gjson.String && e.String() != "" {
		return strings.TrimSpace(e.String() + " " + r.Get("error_description").String())
	}
	return ""
}

func sendsErrorsWith200(p llm.ProviderID) bool {
	return p == llm.ProviderBaidu || p == llm.ProviderQwen
}

// ErrorMessage 从错误响应体里取出可读信息，仅用于日志。
func ErrorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		r := gjson.ParseBytes(body)
		for _, path := range []string{"error.message", "error_msg", "message", "error"} {
			if v := r.Get(path); v.Exists() && v.Type == gjson.String && v.String() != "" {
				return v.String()
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 512 {
		msg = msg[:512]
	}
	return msg
}
