package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/a1095753788/AI-Stars-sub000/llm"
	"github.com/a1095753788/AI-Stars-sub000/types"
)

// KeyPrefix 是所有缓存条目的键前缀
const KeyPrefix = "llm:cache:"

type keyMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type keyMaterial struct {
	Messages []keyMessage `json:"messages"`
	Provider string       `json:"provider"`
	Model    string       `json:"model"`
	Endpoint string       `json:"endpoint"`
}

// Key 由对话的 {role, content} 序列与 provider/model/endpoint 派生确定性键。
// 消息 ID 与时间戳不参与计算。
func Key(msgs []types.Message, provider llm.ProviderID, model, endpoint string) string {
	m := keyMaterial{
		Messages: make([]keyMessage, len(msgs)),
		Provider: string(provider),
		Model:    model,
		Endpoint: endpoint,
	}
	for i, msg := range msgs {
		m.Messages[i] = keyMessage{Role: string(msg.Role), Content: msg.Content}
	}

	data, err := json.Marshal(m)
	if err != nil {
		// fallback: 使用 fmt.Sprintf 生成确定性字符串避免 key 碰撞
		data = []byte(fmt.Sprintf("%v", m))
	}
	hash := sha256.Sum256(data)
	return KeyPrefix + hex.EncodeToString(hash[:16]) // 使用前 16 字节
}
