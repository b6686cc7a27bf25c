// MockUpstream 是基于 httptest 的假厂商服务。
//
// 支持固定响应、SSE 分块输出、延迟与状态码注入，并记录每次收到的请求。
package mocks

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/a1095753788/AI-Stars-sub000/llm"
)

// --- MockUpstream 结构 ---

// RecordedRequest 记录单次收到的请求
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// MockUpstream 是厂商 HTTP 端点的模拟实现
type MockUpstream struct {
	mu sync.Mutex

	server *httptest.Server

	// 响应配置
	status      int
	contentType string
	body        string
	chunks      []string
	chunkDelay  time.Duration
	delay       time.Duration
	handler     http.HandlerFunc

	// 调用记录
	requests []RecordedRequest
}

// --- 构造函数和 Builder 方法 ---

// NewMockUpstream 启动假服务，测试结束时自动关闭
func NewMockUpstream(t testing.TB) *MockUpstream {
	t.Helper()
	m := &MockUpstream{status: http.StatusOK, contentType: "application/json"}
	m.server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.server.Close)
	return m
}

// WithJSON 设置 200 JSON 响应
func (m *MockUpstream) WithJSON(body string) *MockUpstream {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = http.StatusOK
	m.contentType = "application/json"
	m.body = body
	m.chunks = nil
	return m
}

// WithStatus 设置非 2xx 响应
func (m *MockUpstream) WithStatus(status int, body string) *MockUpstream {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.body = body
	m.chunks = nil
	return m
}

// WithStream 设置 text/event-stream 响应，每个 chunk 单独写出并 Flush
func (m *MockUpstream) WithStream(chunks ...string) *MockUpstream {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = http.StatusOK
	m.contentType = "text/event-stream"
	m.chunks = chunks
	m.body = ""
	return m
}

// WithChunkDelay 设置每个流式分块之间的间隔
func (m *MockUpstream) WithChunkDelay(d time.Duration) *MockUpstream {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunkDelay = d
	return m
}

// WithDelay 设置写响应头之前的延迟，请求被取消时提前返回
func (m *MockUpstream) WithDelay(d time.Duration) *MockUpstream {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
	return m
}

// WithHandler 完全接管响应
func (m *MockUpstream) WithHandler(h http.HandlerFunc) *MockUpstream {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = h
	return m
}

// --- 访问方法 ---

// URL 返回服务根地址
func (m *MockUpstream) URL() string {
	return m.server.URL
}

// Config 返回指向本服务的 Provider 配置
func (m *MockUpstream) Config(p llm.ProviderID) llm.ProviderConfig {
	return llm.ProviderConfig{
		Provider: p,
		Endpoint: m.server.URL + "/v1/chat",
		APIKey:   "sk-test-secret-key-1234",
		Model:    "test-model",
	}
}

// Requests 返回收到的请求副本
func (m *MockUpstream) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]RecordedRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount 返回收到的请求数
func (m *MockUpstream) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest 返回最后一次请求，没有请求时返回零值
func (m *MockUpstream) LastRequest() RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return RecordedRequest{}
	}
	return m.requests[len(m.requests)-1]
}

// --- HTTP 处理 ---

func (m *MockUpstream) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.requests = append(m.requests, RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	status, contentType, respBody := m.status, m.contentType, m.body
	chunks := append([]string(nil), m.chunks...)
	chunkDelay, delay, handler := m.chunkDelay, m.delay, m.handler
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if handler != nil {
		handler(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if len(chunks) == 0 {
		_, _ = io.WriteString(w, respBody)
		return
	}

	// 先把响应头推给客户端
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}
	for _, chunk := range chunks {
		if chunkDelay > 0 {
			select {
			case <-time.After(chunkDelay):
			case <-r.Context().Done():
				return
			}
		}
		_, _ = io.WriteString(w, chunk)
		if flusher != nil {
			flusher.Flush()
		}
	}
}
