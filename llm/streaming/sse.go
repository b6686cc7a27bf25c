package streaming

import (
	"bytes"
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

var errMalformedEvent = errors.New("malformed stream event")

// sseFrame 是一个以空行结尾的 SSE 事件
type sseFrame struct {
	event   string
	data    string
	hasData bool
}

// nextFrame 在 buf 中查找下一个完整事件。接受 "\n\n" 与 "\r\n\r\n" 分隔；
// atEOF 时剩余非空内容作为最后一个事件。
func nextFrame(buf []byte, atEOF bool) (sseFrame, int, bool) {
	end, sepLen := -1, 0
	if i := bytes.Index(buf, []byte("\n\n")); i >= 0 {
		end, sepLen = i, 2
	}
	if i := bytes.Index(buf, []byte("\r\n\r\n")); i >= 0 && (end < 0 || i < end) {
		end, sepLen = i, 4
	}

	var raw []byte
	var n int
	switch {
	case end >= 0:
		raw, n = buf[:end], end+sepLen
	case atEOF && len(bytes.TrimSpace(buf)) > 0:
		raw, n = buf, len(buf)
	case atEOF && len(buf) > 0:
		// 只剩空白
		return sseFrame{}, len(buf), false
	default:
		return sseFrame{}, 0, false
	}

	var f sseFrame
	var data []string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "" || strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		case strings.HasPrefix(line, "event:"):
			f.event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		}
		// id: / retry: 忽略
	}
	if len(data) > 0 {
		f.data = strings.Join(data, "\n")
		f.hasData = true
	}
	return f, n, true
}

// Delta 是从单个 JSON 载荷中提取出的结果。
type Delta struct {
	Text string
	Done bool
	Err  string
}

// DeltaFunc 从一个 JSON 事件中提取增量。
type DeltaFunc func(payload gjson.Result) Delta

type sseDialect struct {
	extract DeltaFunc
}

// SSE 返回 data: 行格式的方言，按 deltaPaths 依次取第一个非空文本。
func SSE(deltaPaths ...string) Dialect {
	return &sseDialect{extract: pathDelta(deltaPaths)}
}

// SSEWith 使用自定义提取函数。
func SSEWith(extract DeltaFunc) Dialect {
	return &sseDialect{extract: extract}
}

func (d *sseDialect) Name() string { return "sse" }

func (d *sseDialect) Next(buf []byte, atEOF bool) (Event, int, error) {
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
	if strings.TrimSpace(f.data) == "[DONE]" {
		return Event{Kind: EventDone}, n, nil
	}
	if !gjson.Valid(f.data) {
		return Event{}, n, errMalformedEvent
	}
	return deltaEvent(d.extract(gjson.Parse(f.data))), n, nil
}

// pathDelta 依次尝试多个路径，同时识别通用的错误信封与结束标记
func pathDelta(paths []string) DeltaFunc {
	return func(r gjson.Result) Delta {
		if msg := envelopeError(r); msg != "" {
			return Delta{Err: msg}
		}
		var d Delta
		for _, p := range paths {
			if t := textOf(r.Get(p)); t != "" {
				d.Text = t
				break
			}
		}
		// 百度: is_end 标记最后一个事件
		d.Done = r.Get("is_end").Bool()
		return d
	}
}

// envelopeError 识别流内的错误载荷
func envelopeError(r gjson.Result) string {
	// 部分兼容网关会在正常分片里带 "error": null
	if e := r.Get("error"); e.IsObject() {
		if m := e.Get("message").String(); m != "" {
			return m
		}
		return e.Raw
	} else if e.Type == gjson.String && e.String() != "" {
		return e.String()
	}
	if code := r.Get("error_code"); code.Exists() && code.Int() != 0 {
		return strings.TrimSpace(code.String() + " " + r.Get("error_msg").String())
	}
	if code := r.Get("code"); code.Type == gjson.String && code.String() != "" && !r.Get("output").Exists() {
		return strings.TrimSpace(code.String() + " " + r.Get("message").String())
	}
	return ""
}

// textOf 兼容字符串与 [{text}] 数组
func textOf(v gjson.Result) string {
	if v.IsArray() {
		var sb strings.Builder
		for _, item := range v.Array() {
			if item.Type == gjson.String {
				sb.WriteString(item.String())
			} else {
				sb.WriteString(item.Get("text").String())
			}
		}
		return sb.String()
	}
	if v.Type == gjson.String {
		return v.String()
	}
	return ""
}
