// Package llm holds the provider-agnostic chat types shared by the chat loop
// and the completion providers.
package llm

import "strings"

// Role identifies the author of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"

	// RoleSystem is only used for the configured system prompt, which is
	// prepended to each request and never stored in a Conversation.
	RoleSystem Role = "system"
)

// Message is a single role-tagged message. Messages are values and are
// never modified after creation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewUserMessage creates a message authored by the user.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates a message authored by the model.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// NewSystemMessage creates a system instruction message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// ParseRole converts a wire role string into a Role.
// Unknown roles are returned as-is so callers can decide how to treat them.
func ParseRole(s string) Role {
	return Role(strings.ToLower(strings.TrimSpace(s)))
}
