package types

import (
	"time"

	"github.com/google/uuid"
)

// Role represents the role of a message participant.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether the role is one of the conversation roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

// MediaType distinguishes attachments carried by a message.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaFile  MediaType = "file"
)

// ImageContent represents image data for multimodal messages.
type ImageContent struct {
	Type     string `json:"type"` // "url" or "base64"
	URL      string `json:"url,omitempty"`
	Data     string `json:"data,omitempty"` // base64 encoded, optionally a data URI
	MIMEType string `json:"mime_type,omitempty"`
}

// Media is an optional attachment of a message.
type Media struct {
	Type  MediaType     `json:"type"`
	Image *ImageContent `json:"image,omitempty"`
	// FileName / FileURI describe a non-image attachment.
	FileName string `json:"file_name,omitempty"`
	FileURI  string `json:"file_uri,omitempty"`
}

// Message represents a conversation message.
// Messages are immutable once sent; the order of a conversation determines the
// turn structure sent to every provider.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp,omitempty"`
	Media     *Media    `json:"media,omitempty"`
}

// NewMessage creates a new message with the given role and content.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) Message {
	return NewMessage(RoleAssistant, content)
}

// WithImage returns a copy of the message carrying an image attachment.
func (m Message) WithImage(img ImageContent) Message {
	m.Media = &Media{Type: MediaImage, Image: &img}
	return m
}

// HasImage reports whether the message carries an image attachment.
func (m Message) HasImage() bool {
	return m.Media != nil && m.Media.Type == MediaImage && m.Media.Image != nil
}
