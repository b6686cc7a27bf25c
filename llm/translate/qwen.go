package translate

// DashScope 原生协议：input.messages + parameters

type qwenMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"` // 文本模型为 string，多模态模型为 []qwenContent
}

type qwenContent struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

type qwenInput struct {
	Messages []qwenMessage `json:"messages"`
}

type qwenParameters struct {
	Temperature       float64 `json:"temperature"`
	MaxTokens         int     `json:"max_tokens"`
	ResultFormat      string  `json:"result_format"`
	IncrementalOutput bool    `json:"incremental_output,omitempty"`
}

type qwenRequest struct {
	Model      string         `json:"model"`
	Input      qwenInput      `json:"input"`
	Parameters qwenParameters `json:"parameters"`
}

func translateQwen(req Request) (any, error) {
	temp, maxTokens := resolveSampling(req.Config)

	msgs := make([]qwenMessage, 0, len(req.Messages))
	for i, m := range req.Messages {
		qm := qwenMessage{Role: roleOrUser(m.Role), Content: m.Content}
		if req.Image != nil {
			// 多模态服务要求所有消息都使用数组内容
			parts := []qwenContent{}
			if isLast(i, req.Messages) {
				parts = append(parts, qwenContent{Image: req.Image.DataURI()})
			}
			parts = append(parts, qwenContent{Text: m.Content})
			qm.Content = parts
		}
		msgs = append(msgs, qm)
	}

	return qwenRequest{
		Model: req.Config.Model,
		Input: qwenInput{Messages: msgs},
		Parameters: qwenParameters{
			Temperature:       temp,
			MaxTokens:         maxTokens,
			ResultFormat:      "message",
			IncrementalOutput: req.Stream,
		},
	}, nil
}
