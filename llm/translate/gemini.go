package translate

import (
	"strings"

	"github.com/a1095753788/AI-Stars-sub000/types"
)

type geminiContent struct {
	Role  string       `json:"role,omitempty"` // user, model
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64 encoded
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
}

// 连续同角色的消息合并到同一个 parts 数组；流式与否由 URL 决定，请求体不变
func translateGemini(req Request) (any, error) {
	temp, maxTokens := resolveSampling(req.Config)

	var system []string
	contents := make([]geminiContent, 0, len(req.Messages))
	for i, m := range req.Messages {
		withImage := req.Image != nil && isLast(i, req.Messages)
		if m.Role == types.RoleSystem && !withImage {
			system = append(system, m.Content)
			continue
		}

		role := "user"
		if m.Role == types.RoleAssistant {
			role = "model"
		}

		parts := []geminiPart{{Text: m.Content}}
		if withImage {
			parts = append(parts, geminiPart{InlineData: &geminiInlineData{
				MimeType: req.Image.MIMEType,
				Data:     req.Image.Data,
			}})
		}

		if n := len(contents); n > 0 && contents[n-1].Role == role {
			contents[n-1].Parts = append(contents[n-1].Parts, parts...)
			continue
		}
		contents = append(contents, geminiContent{Role: role, Parts: parts})
	}

	out := geminiRequest{
		Contents:         contents,
		GenerationConfig: &geminiGenerationConfig{Temperature: temp, MaxOutputTokens: maxTokens},
	}
	if len(system) > 0 {
		out.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: strings.Join(system, "\n\n")}}}
	}
	return out, nil
}
