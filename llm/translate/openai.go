package translate

import "github.com/a1095753788/AI-Stars-sub000/types"

// OpenAI 兼容格式，覆盖 openai/azure/mistral/deepseek/zhipu 等绝大多数厂商

type openAIMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // string 或 []openAIContentPart
}

type openAIContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *openAIImageURL `json:"image_url,omitempty"`
}

type openAIImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
	Stream      bool            `json:"stream,omitempty"`
}

func translateOpenAI(req Request) (any, error) {
	temp, maxTokens := resolveSampling(req.Config)

	detail := "auto"
	if req.Config.EffectiveCapabilities().HighResImages {
		detail = "high"
	}

	msgs := make([]openAIMessage, 0, len(req.Messages))
	for i, m := range req.Messages {
		om := openAIMessage{Role: roleOrUser(m.Role), Content: m.Content}
		if req.Image != nil && isLast(i, req.Messages) {
			om.Content = []openAIContentPart{
				{Type: "text", Text: m.Content},
				{Type: "image_url", ImageURL: &openAIImageURL{URL: req.Image.DataURI(), Detail: detail}},
			}
		}
		msgs = append(msgs, om)
	}

	return openAIRequest{
		Model:       req.Config.Model,
		Messages:    msgs,
		Temperature: temp,
		MaxTokens:   maxTokens,
		Stream:      req.Stream,
	}, nil
}

// roleOrUser 把未知角色兜底为 user
func roleOrUser(r types.Role) string {
	if r.Valid() {
		return string(r)
	}
	return string(types.RoleUser)
}
