package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCollector(t *testing.T) (*Collector, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewCollector("test", reg, zap.NewNop()), reg
}

// =============================================================================
// 🧪 Collector 测试
// =============================================================================

func TestNewCollector(t *testing.T) {
	collector, _ := newTestCollector(t)

	assert.NotNil(t, collector)
	assert.NotNil(t, collector.llmRequestsTotal)
	assert.NotNil(t, collector.llmRequestDuration)
	assert.NotNil(t, collector.llmUpstreamStatuses)
	assert.NotNil(t, collector.llmStreamEvents)
	assert.NotNil(t, collector.cacheHits)
	assert.NotNil(t, collector.cacheMisses)
	assert.NotNil(t, collector.cacheEvictions)
}

func TestNewCollector_SeparateRegistries(t *testing.T) {
	// 相同 namespace 注册到不同 Registry 不应 panic
	assert.NotPanics(t, func() {
		NewCollector("dup", prometheus.NewRegistry(), nil)
		NewCollector("dup", prometheus.NewRegistry(), nil)
	})
}

func TestCollector_RecordLLMRequest(t *testing.T) {
	collector, _ := newTestCollector(t)

	collector.RecordLLMRequest("openai", "gpt-4o", "text", "success", 500*time.Millisecond)
	collector.RecordLLMRequest("openai", "gpt-4o", "text", "success", 300*time.Millisecond)
	collector.RecordLLMRequest("anthropic", "claude", "stream", "error", time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(
		collector.llmRequestsTotal.WithLabelValues("openai", "gpt-4o", "text", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(
		collector.llmRequestsTotal.WithLabelValues("anthropic", "claude", "stream", "error")))
	assert.Equal(t, 2, testutil.CollectAndCount(collector.llmRequestDuration))
}

func TestCollector_RecordUpstreamStatus(t *testing.T) {
	collector, _ := newTestCollector(t)

	collector.RecordUpstreamStatus("gemini", 200)
	collector.RecordUpstreamStatus("gemini", 429)
	collector.RecordUpstreamStatus("gemini", 401)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.llmUpstreamStatuses.WithLabelValues("gemini", "2xx")))
	assert.Equal(t, 2.0, testutil.ToFloat64(collector.llmUpstreamStatuses.WithLabelValues("gemini", "4xx")))
}

func TestCollector_RecordStream(t *testing.T) {
	collector, _ := newTestCollector(t)

	collector.RecordStream("qwen", 10, 8, 1)
	collector.RecordStream("qwen", 2, 2, 0)

	assert.Equal(t, 12.0, testutil.ToFloat64(collector.llmStreamEvents.WithLabelValues("qwen", "event")))
	assert.Equal(t, 10.0, testutil.ToFloat64(collector.llmStreamEvents.WithLabelValues("qwen", "delta")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.llmStreamEvents.WithLabelValues("qwen", "decode_error")))
}

func TestCollector_CacheMetrics(t *testing.T) {
	collector, reg := newTestCollector(t)

	collector.RecordCacheHit("llm_response")
	collector.RecordCacheHit("llm_response")
	collector.RecordCacheMiss("llm_response")
	collector.RecordCacheEviction("llm_response", 3)

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.cacheHits.WithLabelValues("llm_response")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.cacheMisses.WithLabelValues("llm_response")))
	assert.Equal(t, 3.0, testutil.ToFloat64(collector.cacheEvictions.WithLabelValues("llm_response")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_cache_hits_total")
	assert.Contains(t, names, "test_cache_evictions_total")
}

// =============================================================================
// 🔧 辅助函数测试
// =============================================================================

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{429, "4xx"},
		{500, "5xx"},
		{529, "5xx"},
		{100, "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusCode(tt.code))
		})
	}
}
