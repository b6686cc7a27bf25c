package translate

import (
	"strings"

	"github.com/a1095753788/AI-Stars-sub000/types"
)

type ernieMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ernieRequest struct {
	Messages        []ernieMessage `json:"messages"`
	System          string         `json:"system,omitempty"`
	Temperature     float64        `json:"temperature"`
	MaxOutputTokens int            `json:"max_output_tokens"`
	Stream          bool           `json:"stream,omitempty"`
}

// ERNIE 要求 messages 以 user 开头且 user/assistant 严格交替：
// 开头的 assistant 被丢弃，连续同角色的内容按换行合并。
func translateBaidu(req Request) (any, error) {
	temp, maxTokens := resolveSampling(req.Config)
	// ERNIE 的 temperature 取值 (0, 1]
	if temp <= 0 {
		temp = 0.01
	} else if temp > 1 {
		temp = 1
	}

	var system []string
	msgs := make([]ernieMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		if m.Role == types.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		role := anthropicRole(m.Role)
		if len(msgs) == 0 && role != "user" {
			continue
		}
		if n := len(msgs); n > 0 && msgs[n-1].Role == role {
			msgs[n-1].Content += "\n" + m.Content
			continue
		}
		msgs = append(msgs, ernieMessage{Role: role, Content: m.Content})
	}
	if len(msgs) == 0 {
		return nil, types.NewConfigurationError(types.ErrInvalidRequest, "conversation has no user message").
			WithProvider(string(req.Config.Provider))
	}

	return ernieRequest{
		Messages:        msgs,
		System:          strings.Join(system, "\n\n"),
		Temperature:     temp,
		MaxOutputTokens: maxTokens,
		Stream:          req.Stream,
	}, nil
}
