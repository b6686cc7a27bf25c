package streaming

import (
	"strings"

	"go.uber.org/zap"

	"github.com/a1095753788/AI-Stars-sub000/llm"
	"github.com/a1095753788/AI-Stars-sub000/types"
)

// State 是解码器状态。DONE 与 ERRORED 为终态，进入后所有操作都是空操作。
type State int

const (
	StateAccumulating State = iota
	StateDone
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateDone:
		return "done"
	case StateErrored:
		return "errored"
	default:
		return "accumulating"
	}
}

// Stats 汇总一次流的解码情况。
type Stats struct {
	Events       int
	Deltas       int
	DecodeErrors int
}

// Option 配置 Decoder。
type Option func(*Decoder)

// WithOnUpdate 在每次内容增长后收到累计文本。
func WithOnUpdate(fn func(cumulative string)) Option {
	return func(d *Decoder) { d.onUpdate = fn }
}

// WithOnDone 在进入 DONE 时收到最终文本，只触发一次。
func WithOnDone(fn func(final string)) Option {
	return func(d *Decoder) { d.onDone = fn }
}

// WithLogger 设置日志器。
func WithLogger(logger *zap.Logger) Option {
	return func(d *Decoder) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithProvider 标记错误与日志中的 Provider。
func WithProvider(p llm.ProviderID) Option {
	return func(d *Decoder) { d.provider = p }
}

// Decoder 把任意切分的字节块还原为累计文本。单个 Decoder 只服务一个流，
// 不是并发安全的：Feed/Finish/Fail 须在同一 goroutine 内按到达顺序调用。
type Decoder struct {
	dialect  Dialect
	provider llm.ProviderID
	logger   *zap.Logger

	buf     []byte
	content strings.Builder
	state   State
	err     *types.Error
	stats   Stats

	onUpdate func(string)
	onDone   func(string)
}

// NewDecoder 创建解码器。
func NewDecoder(dialect Dialect, opts ...Option) *Decoder {
	d := &Decoder{
		dialect: dialect,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(
		zap.String("component", "stream_decoder"),
		zap.String("dialect", dialect.Name()),
		zap.String("provider", string(d.provider)),
	)
	return d
}

// Feed 追加一个字节块并处理其中所有完整事件，不完整的尾部留在缓冲中。
func (d *Decoder) Feed(chunk []byte) {
	if d.state != StateAccumulating {
		return
	}
	d.buf = append(d.buf, chunk...)
	d.drain(false)
}

// Finish 表示读取结束：冲刷尾部事件后进入 DONE（或 ERRORED）。
func (d *Decoder) Finish() {
	if d.state != StateAccumulating {
		return
	}
	d.drain(true)
	if d.state != StateAccumulating {
		return
	}

	if d.stats.DecodeErrors > 0 && d.content.Len() == 0 {
		d.fail(types.NewDecodeError(types.ErrMalformedStream, "stream contained no decodable content", nil))
		return
	}
	d.done()
}

// Fail 以传输错误结束流。
func (d *Decoder) Fail(err *types.Error) {
	if d.state != StateAccumulating {
		return
	}
	d.fail(err)
}

// State 返回当前状态。
func (d *Decoder) State() State {
	return d.state
}

// Content 返回目前累计的文本。
func (d *Decoder) Content() string {
	return d.content.String()
}

// Err 返回 ERRORED 时的错误。
func (d *Decoder) Err() *types.Error {
	return d.err
}

// Stats 返回解码统计。
func (d *Decoder) Stats() Stats {
	return d.stats
}

func (d *Decoder) drain(atEOF bool) {
	for d.state == StateAccumulating {
		ev, n, err := d.dialect.Next(d.buf, atEOF)
		if n <= 0 && err == nil && ev.Kind == EventNone {
			break
		}
		if n > len(d.buf) {
			n = len(d.buf)
		}
		d.buf = d.buf[n:]

		if err != nil {
			d.stats.DecodeErrors++
			if atEOF {
				d.fail(types.NewDecodeError(types.ErrMalformedStream, "trailing stream event is malformed", err))
				return
			}
			d.logger.Debug("skipping undecodable stream event",
				zap.Int("decode_errors", d.stats.DecodeErrors),
				zap.Error(err))
			continue
		}

		if ev.Kind != EventNone {
			d.stats.Events++
		}
		switch ev.Kind {
		case EventDelta:
			d.appendText(ev.Text)
		case EventDone:
			d.appendText(ev.Text)
			d.done()
		case EventError:
			d.fail(ev.Err)
		}

		if n == 0 {
			// 方言没有消费任何字节，避免死循环
			break
		}
	}
}

func (d *Decoder) appendText(text string) {
	if text == "" {
		return
	}
	d.stats.Deltas++
	d.content.WriteString(text)
	if d.onUpdate != nil {
		d.onUpdate(d.content.String())
	}
}

func (d *Decoder) done() {
	d.state = StateDone
	d.buf = nil
	if d.onDone != nil {
		d.onDone(d.content.String())
	}
}

func (d *Decoder) fail(err *types.Error) {
	if err == nil {
		err = types.NewDecodeError(types.ErrMalformedStream, "stream failed", nil)
	}
	if err.Provider == "" {
		err.Provider = string(d.provider)
	}
	d.state = StateErrored
	d.err = err
	d.buf = nil
	d.logger.Warn("stream errored",
		zap.String("code", string(err.Code)),
		zap.String("kind", string(err.Kind)),
		zap.Int("content_len", d.content.Len()))
}

// deltaEvent 把提取结果转换为事件
func deltaEvent(delta Delta) Event {
	switch {
	case delta.Err != "":
		return Event{Kind: EventError, Err: types.NewProviderError(types.ErrProviderRejected, 0, delta.Err)}
	case delta.Done:
		return Event{Kind: EventDone, Text: delta.Text}
	case delta.Text != "":
		return Event{Kind: EventDelta, Text: delta.Text}
	default:
		return Event{Kind: EventSkip}
	}
}
