package streaming

import (
	"bytes"
	"strings"

	"github.com/tidwall/gjson"
)

// bestGuessPaths 是未知端点最常见的文本字段
var bestGuessPaths = []string{
	"content",
	"text",
	"delta.content",
	"choices.0.delta.content",
	"choices.0.text",
	"choices.0.message.content",
	"message.content",
	"response",
	"output.text",
	"result",
}

type genericMode int

const (
	genericUndecided genericMode = iota
	genericSSE
	genericWhole
)

// genericDialect 有状态，每个 Decoder 一个实例
type genericDialect struct {
	mode    genericMode
	extract DeltaFunc
}

// Generic 返回自定义端点的尽力而为方言：
// 看起来像 SSE 时逐事件解析（非 JSON 的 data 按原文透传），
// 否则等到 EOF 后按整体 JSON、逐行 JSON、原始文本的顺序解释。
func Generic() Dialect {
	return &genericDialect{extract: pathDelta(bestGuessPaths)}
}

func (d *genericDialect) Name() string { return "generic" }

func (d *genericDialect) Next(buf []byte, atEOF bool) (Event, int, error) {
	if d.mode == genericUndecided {
		trimmed := bytes.TrimLeft(buf, " \t\r\n")
		if len(trimmed) < len("data:") && !atEOF {
			return Event{}, 0, nil
		}
		if looksLikeSSE(trimmed) {
			d.mode = genericSSE
		} else {
			d.mode = genericWhole
		}
	}

	if d.mode == genericSSE {
		return d.nextSSE(buf, atEOF)
	}
	if !atEOF {
		return Event{}, 0, nil
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		return Event{}, len(buf), nil
	}
	return deltaEvent(d.whole(buf)), len(buf), nil
}

func (d *genericDialect) nextSSE(buf []byte, atEOF bool) (Event, int, error) {
	f, n, ok := nextFrame(buf, atEOF)
	if !ok {
		if n > 0 {
			return Event{Kind: EventSkip}, n, nil
		}
		return Event{}, 0, nil
	}
	if !f.hasData {
		return Event{Kind: EventSkip}, n, nil
	}
	data := strings.TrimSpace(f.data)
	if data == "[DONE]" {
		return Event{Kind: EventDone}, n, nil
	}
	if !gjson.Valid(data) {
		return Event{Kind: EventDelta, Text: f.data}, n, nil
	}
	return deltaEvent(d.extract(gjson.Parse(data))), n, nil
}

// whole 在 EOF 后解释整个响应体。JSON 里找不到任何已知文本字段时，
// 说明猜测失败，退回原文透传。
func (d *genericDialect) whole(buf []byte) Delta {
	raw := Delta{Text: strings.TrimSpace(string(buf))}

	if gjson.ValidBytes(buf) {
		r := gjson.ParseBytes(buf)
		part := d.extract(r)
		if part.Err == "" && part.Text == "" && !hasKnownField(r) {
			return raw
		}
		return part
	}

	// 逐行 JSON（NDJSON），任意一行不是 JSON 则整体按原文处理
	lines := strings.Split(raw.Text, "\n")
	var sb strings.Builder
	matched := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !gjson.Valid(line) {
			return raw
		}
		r := gjson.Parse(line)
		part := d.extract(r)
		if part.Err != "" {
			return part
		}
		if part.Text != "" || hasKnownField(r) {
			matched = true
		}
		sb.WriteString(part.Text)
	}
	if !matched {
		return raw
	}
	return Delta{Text: sb.String()}
}

// hasKnownField 判断对象里是否出现过任一猜测路径（值可以为空）
func hasKnownField(r gjson.Result) bool {
	for _, p := range bestGuessPaths {
		if r.Get(p).Exists() {
			return true
		}
	}
	return false
}

func looksLikeSSE(b []byte) bool {
	for _, prefix := range []string{"data:", "event:", "id:", ":"} {
		if bytes.HasPrefix(b, []byte(prefix)) {
			return true
		}
	}
	return false
}
