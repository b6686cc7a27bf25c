package translate

import (
	"strings"

	"github.com/a1095753788/AI-Stars-sub000/types"
)

type claudeMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string 或 []claudeContent
}

type claudeContent struct {
	Type   string        `json:"type"`
	Text   string        `json:"text,omitempty"`
	Source *claudeSource `json:"source,omitempty"`
}

type claudeSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type claudeRequest struct {
	Model       string          `json:"model"`
	System      string          `json:"system,omitempty"`
	Messages    []claudeMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature"`
	Stream      bool            `json:"stream,omitempty"`
}

// system 消息提升到顶层字段，其余按顺序保留
func translateAnthropic(req Request) (any, error) {
	temp, maxTokens := resolveSampling(req.Config)

	var system []string
	msgs := make([]claudeMessage, 0, len(req.Messages))
	for i, m := range req.Messages {
		withImage := req.Image != nil && isLast(i, req.Messages)
		if m.Role == types.RoleSystem && !withImage {
			system = append(system, m.Content)
			continue
		}
		cm := claudeMessage{Role: anthropicRole(m.Role), Content: m.Content}
		if withImage {
			cm.Content = []claudeContent{
				{Type: "image", Source: &claudeSource{Type: "base64", MediaType: req.Image.MIMEType, Data: req.Image.Data}},
				{Type: "text", Text: m.Content},
			}
		}
		msgs = append(msgs, cm)
	}

	return claudeRequest{
		Model:       req.Config.Model,
		System:      strings.Join(system, "\n\n"),
		Messages:    msgs,
		MaxTokens:   maxTokens,
		Temperature: temp,
		Stream:      req.Stream,
	}, nil
}

func anthropicRole(r types.Role) string {
	if r == types.RoleAssistant {
		return "assistant"
	}
	return "user"
}
