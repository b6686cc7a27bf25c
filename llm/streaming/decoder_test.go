package streaming

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/a1095753788/AI-Stars-sub000/llm"
	"github.com/a1095753788/AI-Stars-sub000/types"
)

const helloStream = "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n" +
	"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n" +
	"data: [DONE]\n\n"

type recorder struct {
	updates []string
	done    []string
}

func (r *recorder) options() []Option {
	return []Option{
		WithOnUpdate(func(s string) { r.updates = append(r.updates, s) }),
		WithOnDone(func(s string) { r.done = append(r.done, s) }),
	}
}

func decode(t *testing.T, dialect Dialect, chunks ...string) (*Decoder, *recorder) {
	t.Helper()
	rec := &recorder{}
	opts := append(rec.options(), WithLogger(zaptest.NewLogger(t)), WithProvider(llm.ProviderOpenAI))
	d := NewDecoder(dialect, opts...)
	for _, c := range chunks {
		d.Feed([]byte(c))
	}
	d.Finish()
	return d, rec
}

func TestDecoder_SSE_Hello(t *testing.T) {
	d, rec := decode(t, SSE("choices.0.delta.content"), helloStream)

	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "Hello", d.Content())
	assert.Equal(t, []string{"Hel", "Hello"}, rec.updates)
	assert.Equal(t, []string{"Hello"}, rec.done)
	assert.Nil(t, d.Err())
	assert.Equal(t, 2, d.Stats().Deltas)
}

func TestDecoder_SSE_SplitMidEvent(t *testing.T) {
	d, rec := decode(t, SSE("choices.0.delta.content"),
		"data: {\"choices\":[{\"del",
		"ta\":{\"content\":\"Hel\"}}]}\n",
		"\ndata: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\ndata: [DO",
		"NE]\n\n",
	)
	assert.Equal(t, "Hello", d.Content())
	assert.Equal(t, []string{"Hel", "Hello"}, rec.updates)
	assert.Len(t, rec.done, 1)
}

func TestDecoder_SSE_CRLF(t *testing.T) {
	stream := strings.ReplaceAll(helloStream, "\n", "\r\n")
	d, _ := decode(t, SSE("choices.0.delta.content"), stream)
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "Hello", d.Content())
}

func TestDecoder_SSE_IgnoresMetaLines(t *testing.T) {
	d, _ := decode(t, SSE("choices.0.delta.content"),
		": keep-alive\n\n",
		"id: 1\nevent: message\ndata: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n",
		"retry: 1000\n\n",
	)
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "ok", d.Content())
}

func TestDecoder_SSE_EOFWithoutDone(t *testing.T) {
	d, rec := decode(t, SSE("choices.0.delta.content"),
		"data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, []string{"partial"}, rec.done)
}

func TestDecoder_SSE_TrailingEventWithoutSeparator(t *testing.T) {
	d, _ := decode(t, SSE("choices.0.delta.content"),
		"data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}")
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "ab", d.Content())
}

func TestDecoder_SSE_NullErrorFieldIsIgnored(t *testing.T) {
	d, _ := decode(t, SSE("choices.0.delta.content"),
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}],\"error\":null}\n\n",
		"data: [DONE]\n\n")
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "Hi", d.Content())
	assert.Nil(t, d.Err())
}

func TestDecoder_SSE_EmptyErrorStringIsIgnored(t *testing.T) {
	d, _ := decode(t, SSE("choices.0.delta.content"),
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hi\"}}],\"error\":\"\"}\n\n",
		"data: [DONE]\n\n")
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "Hi", d.Content())
}

func TestDecoder_SkipsMalformedMiddleEvent(t *testing.T) {
	d, rec := decode(t, SSE("choices.0.delta.content"),
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n",
		"data: {broken\n\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n",
		"data: [DONE]\n\n",
	)
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "Hello", d.Content())
	assert.Equal(t, 1, d.Stats().DecodeErrors)
	assert.Len(t, rec.done, 1)
}

func TestDecoder_MalformedTrailingEventErrors(t *testing.T) {
	d, rec := decode(t, SSE("choices.0.delta.content"),
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n",
		"data: {\"choices\":[{\"del")
	assert.Equal(t, StateErrored, d.State())
	require.NotNil(t, d.Err())
	assert.Equal(t, types.KindDecode, d.Err().Kind)
	assert.Empty(t, rec.done)
	assert.Equal(t, "Hel", d.Content())
}

func TestDecoder_OnlyMalformedEventsErrors(t *testing.T) {
	d, _ := decode(t, SSE("choices.0.delta.content"), "data: nope\n\ndata: {x\n\n")
	assert.Equal(t, StateErrored, d.State())
	assert.Equal(t, types.ErrMalformedStream, d.Err().Code)
	assert.Equal(t, 2, d.Stats().DecodeErrors)
}

func TestDecoder_EmptyStreamIsDone(t *testing.T) {
	d, rec := decode(t, SSE("choices.0.delta.content"))
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, []string{""}, rec.done)
}

func TestDecoder_InStreamErrorEnvelope(t *testing.T) {
	d, rec := decode(t, SSE("choices.0.delta.content"),
		"data: {\"error\":{\"message\":\"context length exceeded\"}}\n\n")
	assert.Equal(t, StateErrored, d.State())
	assert.Equal(t, types.KindProvider, d.Err().Kind)
	assert.Equal(t, "context length exceeded", d.Err().Message)
	assert.Equal(t, "openai", d.Err().Provider)
	assert.Empty(t, rec.done)
}

func TestDecoder_TerminalStatesAreIdempotent(t *testing.T) {
	d, rec := decode(t, SSE("choices.0.delta.content"), helloStream)
	require.Equal(t, StateDone, d.State())

	d.Feed([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"more\"}}]}\n\n"))
	d.Finish()
	d.Fail(types.NewTransportError(types.ErrUpstreamError, "late", nil))

	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "Hello", d.Content())
	assert.Len(t, rec.done, 1)
	assert.Nil(t, d.Err())

	rec2 := &recorder{}
	e := NewDecoder(SSE("choices.0.delta.content"), rec2.options()...)
	e.Fail(types.NewTransportError(types.ErrUpstreamError, "reset", nil))
	e.Feed([]byte(helloStream))
	e.Finish()
	assert.Equal(t, StateErrored, e.State())
	assert.Empty(t, e.Content())
	assert.Empty(t, rec2.done)
}

func TestDecoder_DoneStopsProcessingSameChunk(t *testing.T) {
	d, _ := decode(t, SSE("choices.0.delta.content"),
		helloStream+"data: {\"choices\":[{\"delta\":{\"content\":\"ignored\"}}]}\n\n")
	assert.Equal(t, "Hello", d.Content())
}

func TestDecoder_Anthropic(t *testing.T) {
	stream := "event: message_start\ndata: {\"type\":\"message_start\",\"message\":{\"id\":\"m\"}}\n\n" +
		"event: content_block_start\ndata: {\"type\":\"content_block_start\",\"index\":0,\"content_block\":{\"type\":\"text\",\"text\":\"\"}}\n\n" +
		"event: ping\ndata: {\"type\":\"ping\"}\n\n" +
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"Hel\"}}\n\n" +
		"event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"index\":0,\"delta\":{\"type\":\"text_delta\",\"text\":\"lo\"}}\n\n" +
		"event: content_block_stop\ndata: {\"type\":\"content_block_stop\",\"index\":0}\n\n" +
		"event: message_delta\ndata: {\"type\":\"message_delta\",\"delta\":{\"stop_reason\":\"end_turn\"}}\n\n" +
		"event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n"

	d, rec := decode(t, TypedEvent(), stream)
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "Hello", d.Content())
	assert.Equal(t, []string{"Hel", "Hello"}, rec.updates)
	assert.Len(t, rec.done, 1)
}

func TestDecoder_AnthropicErrorEvent(t *testing.T) {
	d, _ := decode(t, TypedEvent(),
		"event: error\ndata: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"Overloaded\"}}\n\n")
	assert.Equal(t, StateErrored, d.State())
	assert.Equal(t, types.ErrModelOverloaded, d.Err().Code)
	assert.Equal(t, "Overloaded", d.Err().Message)
}

func TestDecoder_Gemini(t *testing.T) {
	d, _ := decode(t, DialectFor(llm.ProviderGemini),
		"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"Hel\"}],\"role\":\"model\"}}]}\r\n\r\n",
		"data: {\"candidates\":[{\"content\":{\"parts\":[{\"text\":\"lo\"}],\"role\":\"model\"},\"finishReason\":\"STOP\"}]}\r\n\r\n",
	)
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "Hello", d.Content())
}

func TestDecoder_Qwen(t *testing.T) {
	d, _ := decode(t, DialectFor(llm.ProviderQwen),
		"id:1\nevent:result\n:HTTP_STATUS/200\ndata:{\"output\":{\"choices\":[{\"message\":{\"content\":\"你\",\"role\":\"assistant\"},\"finish_reason\":\"null\"}]}}\n\n",
		"id:2\nevent:result\n:HTTP_STATUS/200\ndata:{\"output\":{\"choices\":[{\"message\":{\"content\":\"好\",\"role\":\"assistant\"},\"finish_reason\":\"stop\"}]}}\n\n",
	)
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "你好", d.Content())
}

func TestDecoder_QwenErrorEvent(t *testing.T) {
	d, _ := decode(t, DialectFor(llm.ProviderQwen),
		"id:1\nevent:error\n:HTTP_STATUS/400\ndata:{\"code\":\"InvalidParameter\",\"message\":\"bad input\",\"request_id\":\"r\"}\n\n")
	assert.Equal(t, StateErrored, d.State())
	assert.Equal(t, "InvalidParameter bad input", d.Err().Message)
}

func TestDecoder_BaiduIsEnd(t *testing.T) {
	d, rec := decode(t, DialectFor(llm.ProviderBaidu),
		"data: {\"result\":\"Hel\",\"is_end\":false}\n\n",
		"data: {\"result\":\"lo\",\"is_end\":true}\n\n",
		"data: {\"result\":\"after end\"}\n\n",
	)
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "Hello", d.Content())
	assert.Equal(t, []string{"Hello"}, rec.done)
}

func TestDecoder_GenericWholeJSON(t *testing.T) {
	d, _ := decode(t, Generic(), `{"response":`, `"Hello"}`)
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "Hello", d.Content())
}

func TestDecoder_GenericNDJSON(t *testing.T) {
	d, _ := decode(t, Generic(),
		"{\"message\":{\"content\":\"Hel\"},\"done\":false}\n",
		"{\"message\":{\"content\":\"lo\"},\"done\":true}\n")
	assert.Equal(t, "Hello", d.Content())
}

func TestDecoder_GenericRawText(t *testing.T) {
	d, rec := decode(t, Generic(), "Hel", "lo\n")
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "Hello", d.Content())
	assert.Equal(t, []string{"Hello"}, rec.done)
}

func TestDecoder_GenericSSE(t *testing.T) {
	d, rec := decode(t, Generic(),
		"data: {\"text\":\"Hel\"}\n\n",
		"data: lo\n\n",
		"data: [DONE]\n\n")
	assert.Equal(t, "Hello", d.Content())
	assert.Equal(t, []string{"Hel", "Hello"}, rec.updates)
}

func TestDecoder_GenericUnknownJSONPassesThrough(t *testing.T) {
	d, rec := decode(t, Generic(), `{"answer":`, `"Hello"}`+"\n")
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, `{"answer":"Hello"}`, d.Content())
	assert.Equal(t, []string{`{"answer":"Hello"}`}, rec.done)
}

func TestDecoder_GenericUnknownNDJSONPassesThrough(t *testing.T) {
	d, _ := decode(t, Generic(), "{\"a\":1}\n{\"b\":2}\n")
	assert.Equal(t, StateDone, d.State())
	assert.Equal(t, "{\"a\":1}\n{\"b\":2}", d.Content())
}

func TestDecoder_GenericKnownEmptyFieldIsNotRaw(t *testing.T) {
	d, _ := decode(t, Generic(), `{"response":"","done":true}`)
	assert.Equal(t, StateDone, d.State())
	assert.Empty(t, d.Content())
}

func TestDecoder_GenericErrorEnvelope(t *testing.T) {
	d, _ := decode(t, Generic(), `{"error":"model not loaded"}`)
	assert.Equal(t, StateErrored, d.State())
	assert.Equal(t, "model not loaded", d.Err().Message)
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, "typed-event", DialectFor(llm.ProviderAnthropic).Name())
	assert.Equal(t, "generic", DialectFor(llm.ProviderCustom).Name())
	for _, p := range []llm.ProviderID{llm.ProviderOpenAI, llm.ProviderGemini, llm.ProviderQwen, llm.ProviderBaidu, llm.ProviderOllama} {
		assert.Equal(t, "sse", DialectFor(p).Name(), p)
	}
}
