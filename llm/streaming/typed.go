package streaming

import (
	"github.com/tidwall/gjson"

	"github.com/a1095753788/AI-Stars-sub000/types"
)

type typedEventDialect struct{}

// TypedEvent 返回 Anthropic Messages API 的事件方言：
// content_block_delta 贡献 delta.text，message_stop 结束，error 事件进入 ERRORED。
func TypedEvent() Dialect { return typedEventDialect{} }

func (typedEventDialect) Name() string { return "typed-event" }

func (typedEventDialect) Next(buf []byte, atEOF bool) (Event, int, error) {
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
	if !gjson.Valid(f.data) {
		return Event{}, n, errMalformedEvent
	}

	r := gjson.Parse(f.data)
	typ := r.Get("type").String()
	if typ == "" {
		typ = f.event
	}

	switch typ {
	case "content_block_delta":
		// input_json_delta 等非文本增量不计入内容
		if dt := r.Get("delta.type").String(); dt != "" && dt != "text_delta" {
			return Event{Kind: EventSkip}, n, nil
		}
		return Event{Kind: EventDelta, Text: r.Get("delta.text").String()}, n, nil
	case "message_stop":
		return Event{Kind: EventDone}, n, nil
	case "error":
		msg := r.Get("error.message").String()
		if msg == "" {
			msg = f.data
		}
		code := types.ErrProviderRejected
		if r.Get("error.type").String() == "overloaded_error" {
			code = types.ErrModelOverloaded
		}
		return Event{Kind: EventError, Err: types.NewProviderError(code, 0, msg)}, n, nil
	default:
		// message_start / content_block_start / content_block_stop / message_delta / ping
		return Event{Kind: EventSkip}, n, nil
	}
}
