package streaming

import (
	"context"
	"errors"
	"io"

	"github.com/a1095753788/AI-Stars-sub000/llm"
	"github.com/a1095753788/AI-Stars-sub000/types"
)

// DefaultBufferSize 是 Consume 的默认读缓冲大小。
const DefaultBufferSize = 4096

// Consume 逐块读取 r 并驱动解码器，直到进入终态。
// 读到 EOF 时调用 Finish；其它读错误按传输错误调用 Fail。
// 返回解码器的终态错误，成功时为 nil。
func Consume(ctx context.Context, r io.Reader, d *Decoder, bufSize int) *types.Error {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	buf := make([]byte, bufSize)

	for d.State() == StateAccumulating {
		if err := ctx.Err(); err != nil {
			d.Fail(llm.ContextError(ctx))
			break
		}

		n, err := r.Read(buf)
		if n > 0 {
			d.Feed(buf[:n])
		}
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			d.Finish()
			break
		}
		if ctx.Err() != nil {
			d.Fail(llm.ContextError(ctx))
		} else {
			d.Fail(types.NewTransportError(types.ErrUpstreamError, "stream read failed", err))
		}
		break
	}
	return d.Err()
}
