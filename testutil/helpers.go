// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
// 提供通用的测试辅助函数和断言
//
// 使用方法:
//
//	ctx := testutil.TestContext(t)
//	testutil.AssertEventuallyTrue(t, func() bool { return condition }, 5*time.Second)
// =============================================================================
package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/a1095753788/AI-Stars-sub000/types"
)

// =============================================================================
// 🎯 上下文辅助
// =============================================================================

// TestContext 返回带超时的测试上下文
func TestContext(t *testing.T) context.Context {
	return TestContextWithTimeout(t, 30*time.Second)
}

// TestContextWithTimeout 返回带自定义超时的测试上下文
func TestContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// CancelledContext 返回已取消的上下文
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// =============================================================================
// 🔍 断言辅助
// =============================================================================

// AssertEventuallyTrue 在超时内轮询等待条件成立
func AssertEventuallyTrue(t *testing.T, condition func() bool, timeout time.Duration) {
	t.Helper()
	assert.Eventually(t, condition, timeout, 10*time.Millisecond)
}

// AssertNotContainsSecret 断言 s 中不含密钥原文
func AssertNotContainsSecret(t *testing.T, s, secret string) {
	t.Helper()
	if secret == "" {
		return
	}
	assert.False(t, strings.Contains(s, secret), "secret leaked: %q", s)
}

// =============================================================================
// 🔧 数据工具
// =============================================================================

// Conversation 按 system/user/assistant 交替构造对话，第一条为 system
func Conversation(system string, turns ...string) []types.Message {
	msgs := make([]types.Message, 0, len(turns)+1)
	if system != "" {
		msgs = append(msgs, types.NewSystemMessage(system))
	}
	for i, turn := range turns {
		if i%2 == 0 {
			msgs = append(msgs, types.NewUserMessage(turn))
		} else {
			msgs = append(msgs, types.NewAssistantMessage(turn))
		}
	}
	return msgs
}

// =============================================================================
// 🌊 流式辅助
// =============================================================================

// SplitEvery 把 data 按固定大小切块，模拟网络任意切分
func SplitEvery(data []byte, size int) [][]byte {
	if size <= 0 {
		size = 1
	}
	var chunks [][]byte
	for len(data) > 0 {
		n := min(size, len(data))
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}

// UpdateRecorder 收集流式回调收到的累计文本，可跨 goroutine 读取
type UpdateRecorder struct {
	ch chan string
}

// NewUpdateRecorder 创建回调收集器
func NewUpdateRecorder() *UpdateRecorder {
	return &UpdateRecorder{ch: make(chan string, 1024)}
}

// OnUpdate 作为 RequestOptions.OnUpdate 传入
func (r *UpdateRecorder) OnUpdate(cumulative string) {
	r.ch <- cumulative
}

// Updates 返回目前收到的全部累计文本
func (r *UpdateRecorder) Updates() []string {
	var out []string
	for {
		select {
		case s := <-r.ch:
			out = append(out, s)
		default:
			return out
		}
	}
}
