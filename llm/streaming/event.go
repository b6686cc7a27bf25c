package streaming

import "github.com/a1095753788/AI-Stars-sub000/types"

// EventKind 是方言解析出的事件类别。
type EventKind int

const (
	// EventNone 表示缓冲中还没有完整事件。
	EventNone EventKind = iota
	// EventSkip 是完整但不携带文本的事件（心跳、元数据）。
	EventSkip
	// EventDelta 携带一段增量文本。
	EventDelta
	// EventDone 表示上游声明流结束。
	EventDone
	// EventError 表示上游在流内报告了错误。
	EventError
)

// Event 是方言输出的单个事件。
type Event struct {
	Kind EventKind
	Text string
	Err  *types.Error
}

// Dialect 把滚动缓冲切分为事件，约定与 bufio.SplitFunc 一致：
// n 为消费的字节数；n == 0 且 err == nil 表示需要更多数据。
// err 非空表示已消费的这段数据无法解码。
type Dialect interface {
	Name() string
	Next(buf []byte, atEOF bool) (ev Event, n int, err error)
}
