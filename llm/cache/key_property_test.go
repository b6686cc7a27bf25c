package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/a1095753788/AI-Stars-sub000/llm"
	"github.com/a1095753788/AI-Stars-sub000/types"
)

func TestKey_Format(t *testing.T) {
	key := Key([]types.Message{{Role: types.RoleUser, Content: "hi"}}, llm.ProviderOpenAI, "gpt-4o", "https://x")
	assert.True(t, strings.HasPrefix(key, KeyPrefix))
	assert.Len(t, strings.TrimPrefix(key, KeyPrefix), 32)
}

func TestKey_EmptyConversation(t *testing.T) {
	a := Key(nil, llm.ProviderOpenAI, "m", "e")
	b := Key([]types.Message{}, llm.ProviderOpenAI, "m", "e")
	assert.Equal(t, a, b)
}

// 属性：相同的 {role, content} 序列与 provider/model/endpoint 生成相同的键，
// 消息 ID 与时间戳不影响结果。
func TestProperty_Key_IgnoresIdentity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("ID 与时间戳不参与键计算", prop.ForAll(
		func(contents []string, model string, offset int) bool {
			a := make([]types.Message, len(contents))
			b := make([]types.Message, len(contents))
			for i, c := range contents {
				a[i] = types.NewUserMessage(c)
				b[i] = types.Message{
					ID:        "other-" + c,
					Role:      types.RoleUser,
					Content:   c,
					Timestamp: time.Unix(int64(offset), 0),
				}
			}
			return Key(a, llm.ProviderAnthropic, model, "e") == Key(b, llm.ProviderAnthropic, model, "e")
		},
		gen.SliceOf(gen.AlphaString()),
		gen.AlphaString(),
		gen.IntRange(0, 1<<30),
	))

	properties.TestingRun(t)
}

// 属性：provider/model/endpoint/内容 任一不同，键不同。
func TestProperty_Key_Sensitivity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	msgs := func(content string) []types.Message {
		return []types.Message{{Role: types.RoleUser, Content: content}}
	}

	properties.Property("模型不同则键不同", prop.ForAll(
		func(content, model string) bool {
			return Key(msgs(content), llm.ProviderOpenAI, model, "e") !=
				Key(msgs(content), llm.ProviderOpenAI, model+"x", "e")
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("端点不同则键不同", prop.ForAll(
		func(content, endpoint string) bool {
			return Key(msgs(content), llm.ProviderOpenAI, "m", endpoint) !=
				Key(msgs(content), llm.ProviderOpenAI, "m", endpoint+"/v2")
		},
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.Property("Provider 不同则键不同", prop.ForAll(
		func(content string, p llm.ProviderID) bool {
			other := llm.ProviderOpenAI
			if p == llm.ProviderOpenAI {
				other = llm.ProviderDeepSeek
			}
			return Key(msgs(content), p, "m", "e") != Key(msgs(content), other, "m", "e")
		},
		gen.AlphaString(),
		gen.OneConstOf(llm.ProviderOpenAI, llm.ProviderGemini, llm.ProviderQwen, llm.ProviderBaidu),
	))

	properties.Property("内容不同则键不同", prop.ForAll(
		func(content string) bool {
			return Key(msgs(content), llm.ProviderOpenAI, "m", "e") !=
				Key(msgs(content+"!"), llm.ProviderOpenAI, "m", "e")
		},
		gen.AlphaString(),
	))

	properties.Property("角色不同则键不同", prop.ForAll(
		func(content string) bool {
			asUser := []types.Message{{Role: types.RoleUser, Content: content}}
			asSystem := []types.Message{{Role: types.RoleSystem, Content: content}}
			return Key(asUser, llm.ProviderOpenAI, "m", "e") != Key(asSystem, llm.ProviderOpenAI, "m", "e")
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
